package exitcodes_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgchores/internal/execshell"
	"github.com/temirov/pkgchores/internal/exitcodes"
)

func TestResolve(testInstance *testing.T) {
	commandFailure := execshell.NewCommandFailedError(
		execshell.ShellCommand{Name: execshell.CommandName("yarn"), Details: execshell.CommandDetails{Arguments: []string{"run", "precommit"}}},
		execshell.ExecutionResult{ExitCode: 2},
	)

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: exitcodes.ExitSuccess},
		{name: "plain_error", err: errors.New("boom"), expected: exitcodes.ExitFailure},
		{name: "declined", err: exitcodes.NewDeclinedError("Release aborted"), expected: exitcodes.ExitFailure},
		{name: "status", err: exitcodes.NewSilentStatusError(9), expected: 9},
		{name: "wrapped_command_failure", err: fmt.Errorf("pre-commit: %w", commandFailure), expected: 2},
		{name: "zero_status_is_failure", err: exitcodes.StatusError{Code: 0}, expected: exitcodes.ExitFailure},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, exitcodes.Resolve(testCase.err))
		})
	}
}

func TestErrorClassification(testInstance *testing.T) {
	declined := fmt.Errorf("confirmation: %w", exitcodes.NewDeclinedError("Release aborted"))
	require.True(testInstance, exitcodes.IsDeclined(declined))
	require.False(testInstance, exitcodes.IsSilent(declined))
	require.Equal(testInstance, "confirmation: Release aborted", declined.Error())

	silent := exitcodes.NewSilentStatusError(4)
	require.True(testInstance, exitcodes.IsSilent(silent))
	require.False(testInstance, exitcodes.IsDeclined(silent))
	require.Equal(testInstance, "exit status 4", silent.Error())

	require.Equal(testInstance, "operation declined", exitcodes.DeclinedError{}.Error())
}
