package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/temirov/pkgchores/internal/exitcodes"
)

const (
	errorPrefixConstant          = "Error:"
	dryRunPrefixConstant         = "[dry-run]"
	prefixedLineTemplateConstant = "%s %s\n"
	plainLineTemplateConstant    = "%s\n"
	errorValueTemplateConstant   = "%v"
)

// Reporter writes narration and diagnostics for the operator.
type Reporter struct {
	output      io.Writer
	errorOutput io.Writer
	success     *color.Color
	notice      *color.Color
	failure     *color.Color
	dryRun      *color.Color
}

// NewReporter constructs a Reporter writing narration to output and diagnostics to errorOutput.
func NewReporter(output io.Writer, errorOutput io.Writer) *Reporter {
	if output == nil {
		output = os.Stdout
	}
	if errorOutput == nil {
		errorOutput = os.Stderr
	}
	return &Reporter{
		output:      output,
		errorOutput: errorOutput,
		success:     color.New(color.FgGreen),
		notice:      color.New(color.FgYellow),
		failure:     color.New(color.FgRed, color.Bold),
		dryRun:      color.New(color.FgCyan),
	}
}

// NewConsoleReporter constructs a Reporter bound to the process console.
func NewConsoleReporter() *Reporter {
	return NewReporter(os.Stdout, os.Stderr)
}

// DisableColor turns off ANSI colouring regardless of the terminal.
func (reporter *Reporter) DisableColor() *Reporter {
	for _, palette := range []*color.Color{reporter.success, reporter.notice, reporter.failure, reporter.dryRun} {
		palette.DisableColor()
	}
	return reporter
}

// Infof writes a plain narration line.
func (reporter *Reporter) Infof(format string, arguments ...any) {
	fmt.Fprintf(reporter.output, plainLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Successf writes a narration line in the success colour.
func (reporter *Reporter) Successf(format string, arguments ...any) {
	reporter.success.Fprintf(reporter.output, plainLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Noticef writes an informational line that is not an error, such as a declined confirmation.
func (reporter *Reporter) Noticef(format string, arguments ...any) {
	reporter.notice.Fprintf(reporter.output, plainLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// DryRunf narrates an action that was skipped because mutations are disabled.
func (reporter *Reporter) DryRunf(format string, arguments ...any) {
	fmt.Fprintf(reporter.output, prefixedLineTemplateConstant, reporter.dryRun.Sprint(dryRunPrefixConstant), fmt.Sprintf(format, arguments...))
}

// Errorf writes a diagnostic line prefixed with "Error:" to the error stream.
func (reporter *Reporter) Errorf(format string, arguments ...any) {
	fmt.Fprintf(reporter.errorOutput, prefixedLineTemplateConstant, reporter.failure.Sprint(errorPrefixConstant), fmt.Sprintf(format, arguments...))
}

// ReportFailure prints a terminal command error in the style matching its kind.
func (reporter *Reporter) ReportFailure(err error) {
	switch {
	case err == nil, exitcodes.IsSilent(err):
		return
	case exitcodes.IsDeclined(err):
		reporter.Noticef(errorValueTemplateConstant, err)
	default:
		reporter.Errorf(errorValueTemplateConstant, err)
	}
}
