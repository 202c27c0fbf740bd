// Package cli wires the command-line surface onto the core: a thin cobra
// dispatcher translating subcommands into object store, index, and commit
// operations. The core itself never formats user-facing output or parses
// argv; that translation lives entirely in this package.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the CLI's reported version string.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "svcs",
	Short: "svcs is a content-addressed version control system",
	Long:  `svcs stores project history as an immutable graph of cryptographically-named objects, the way Git does, with staging, sealing (committing), and integrity verification.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Printf("svcs version %s\n", Version)
			os.Exit(0)
		}
		cmd.Help()
	},
}

var version bool

// Execute runs the root command, exiting the process with status 1 on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&version, "version", false, "print the svcs version")

	rootCmd.AddCommand(forgeCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(catObjectCmd)
	rootCmd.AddCommand(lsTreeCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(fsckCmd)
	rootCmd.AddCommand(configCmd)
}
