package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorPrefix   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningPrefix = color.New(color.FgYellow).SprintFunc()
)

// printError prints an error message to w.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorPrefix("Error:"), err)
}

// printWarning prints a warning message to w.
func printWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningPrefix("Warning:"), message)
}
