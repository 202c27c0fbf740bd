// Package colors provides terminal color support for command output.
//
// This package provides:
// - ANSI color codes for terminal output
// - Functions to colorize text based on staged/untracked status
// - Automatic color detection and fallback for non-color terminals
package colors

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/logosito/svcs-go/internal/events"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"

	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
)

// colorEnabled determines if color output should be used.
var colorEnabled = shouldUseColor()

// shouldUseColor determines if the terminal supports colors.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if runtime.GOOS == "windows" {
		term := strings.ToLower(os.Getenv("TERM"))
		wt := os.Getenv("WT_SESSION")
		vscode := os.Getenv("VSCODE_PID")
		if wt != "" || vscode != "" || strings.Contains(term, "color") || strings.Contains(term, "xterm") {
			return true
		}
		return false
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "dumb" || term == "" {
		return false
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return true
}

// SetColorEnabled allows manual control of color output.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return colorEnabled
}

func colorize(text, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ColorReset
}

// Added colors text for a newly staged file.
func Added(text string) string { return colorize(text, BrightGreen) }

// Untracked colors text for a file present but never staged.
func Untracked(text string) string { return colorize(text, BrightYellow) }

func Red(text string) string    { return colorize(text, BrightRed) }
func Green(text string) string  { return colorize(text, BrightGreen) }
func Yellow(text string) string { return colorize(text, BrightYellow) }
func Cyan(text string) string   { return colorize(text, ColorCyan) }

func Bold(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorBold + text + ColorReset
}

// SuccessText colors a confirmation message.
func SuccessText(text string) string { return Green(text) }

// ErrorText colors a failure message.
func ErrorText(text string) string { return Red(text) }

// InfoText colors an informational message.
func InfoText(text string) string { return Cyan(text) }

// ConsoleSink implements events.Sink by rendering each event as a single
// colored line. Out defaults to os.Stdout; set it explicitly (e.g. in tests)
// to capture output instead.
type ConsoleSink struct {
	Out io.Writer
}

// NewConsoleSink returns a ConsoleSink that writes to os.Stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{Out: os.Stdout}
}

func (c *ConsoleSink) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Publish renders e to c.Out. It never returns an error and never blocks the
// caller beyond a single buffered write, matching events.Sink's contract.
func (c *ConsoleSink) Publish(e events.Event) {
	switch e.Kind {
	case events.ErrorRaised:
		fmt.Fprintln(c.out(), ErrorText(e.Message))
	case events.FileStaged:
		fmt.Fprintln(c.out(), Added(fmt.Sprintf("staged %s", e.Path)))
	case events.ObjectSaved:
		fmt.Fprintln(c.out(), InfoText(fmt.Sprintf("saved %s", e.Identity)))
	case events.ObjectLoaded:
		fmt.Fprintln(c.out(), InfoText(fmt.Sprintf("loaded %s", e.Identity)))
	case events.TreeBuilt:
		fmt.Fprintln(c.out(), InfoText(fmt.Sprintf("tree %s built", e.Identity)))
	default:
		fmt.Fprintln(c.out(), InfoText(string(e.Kind)))
	}
}
