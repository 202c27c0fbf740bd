// Command svcs is the command-line entrypoint: it does nothing but hand
// control to the cli package's cobra dispatcher.
package main

import "github.com/logosito/svcs-go/cli"

func main() {
	cli.Execute()
}
