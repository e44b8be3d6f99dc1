package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// FormatError formats an error message for CLI output.
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output.
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output.
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Progress shows a spinner while fn runs, but only when w is a terminal
// and quiet is off. A failure replaces the spinner with a red message.
func Progress(w io.Writer, quiet bool, message string, fn func() error) error {
	if quiet || !IsTerminal(w) {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("❌ "+message) + "\n"
	}
	s.Stop()
	return err
}
