package main

import (
	"os"

	"github.com/temirov/pkgchores/cmd/cli"
	"github.com/temirov/pkgchores/internal/exitcodes"
	"github.com/temirov/pkgchores/internal/ui"
)

// main executes the pkgchores command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		ui.NewConsoleReporter().ReportFailure(executionError)
		os.Exit(exitcodes.Resolve(executionError))
	}
}
