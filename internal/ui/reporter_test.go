package ui_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgchores/internal/exitcodes"
	"github.com/temirov/pkgchores/internal/ui"
)

func TestReporterReportFailure(testInstance *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedOutput string
		expectedErrors string
	}{
		{name: "nil", err: nil},
		{name: "silent_status", err: exitcodes.NewSilentStatusError(9)},
		{
			name:           "declined",
			err:            exitcodes.NewDeclinedError("Release aborted by user"),
			expectedOutput: "Release aborted by user\n",
		},
		{
			name:           "generic",
			err:            fmt.Errorf("version check: %w", errors.New("mismatch")),
			expectedErrors: "Error: version check: mismatch\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			errorBuffer := &bytes.Buffer{}
			reporter := ui.NewReporter(outputBuffer, errorBuffer).DisableColor()

			reporter.ReportFailure(testCase.err)

			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			require.Equal(testInstance, testCase.expectedErrors, errorBuffer.String())
		})
	}
}

func TestReporterNarration(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	reporter := ui.NewReporter(outputBuffer, errorBuffer).DisableColor()

	reporter.Infof("Releasing %s", "v1.2.3")
	reporter.DryRunf("Skipping %s", "git push origin master")
	reporter.Successf("Released %s", "v1.2.3")

	require.Equal(testInstance, "Releasing v1.2.3\n[dry-run] Skipping git push origin master\nReleased v1.2.3\n", outputBuffer.String())
	require.Empty(testInstance, errorBuffer.String())
}
