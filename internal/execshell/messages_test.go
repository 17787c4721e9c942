package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgchores/internal/execshell"
)

const (
	testMessageWorkingDirectoryConstant = "/tmp/project"
	testMessageDirectorySuffixConstant  = " (in /tmp/project)"
	testMessageBranchConstant           = "release/v1.2.3"
	testMessageRemoteConstant           = "origin"
)

func TestCommandMessageFormatterGitMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		arguments       []string
		result          execshell.ExecutionResult
		expectedStart   string
		expectedOutcome string
	}{
		{
			name:            "current_branch",
			arguments:       []string{"branch", "--show-current"},
			result:          execshell.ExecutionResult{StandardOutput: testMessageBranchConstant + "\n"},
			expectedStart:   "Identifying current branch" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Current branch is " + testMessageBranchConstant + testMessageDirectorySuffixConstant,
		},
		{
			name:            "tag_lookup_missing",
			arguments:       []string{"rev-parse", "-q", "--verify", "refs/tags/v1.2.3"},
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedStart:   "Looking up refs/tags/v1.2.3" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Could not find refs/tags/v1.2.3" + testMessageDirectorySuffixConstant + " (exit code 1)",
		},
		{
			name:            "pull_rebase",
			arguments:       []string{"pull", "--rebase", testMessageRemoteConstant, testMessageBranchConstant},
			expectedStart:   "Pulling " + testMessageBranchConstant + " from origin" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Pulled " + testMessageBranchConstant + " from origin" + testMessageDirectorySuffixConstant,
		},
		{
			name:            "create_branch",
			arguments:       []string{"checkout", "-b", "release/v1.2.4"},
			expectedStart:   "Creating branch release/v1.2.4" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Now on branch release/v1.2.4" + testMessageDirectorySuffixConstant,
		},
		{
			name:            "merge_conflict",
			arguments:       []string{"merge", "--no-ff", "--no-edit", testMessageBranchConstant},
			result:          execshell.ExecutionResult{ExitCode: 1, StandardError: "CONFLICT\n"},
			expectedStart:   "Merging " + testMessageBranchConstant + testMessageDirectorySuffixConstant,
			expectedOutcome: "Failed to merge " + testMessageBranchConstant + testMessageDirectorySuffixConstant + " (exit code 1: CONFLICT)",
		},
		{
			name:            "push_upstream",
			arguments:       []string{"push", "-u", testMessageRemoteConstant, testMessageBranchConstant},
			expectedStart:   "Pushing " + testMessageBranchConstant + " to origin" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Pushed " + testMessageBranchConstant + " to origin" + testMessageDirectorySuffixConstant,
		},
		{
			name:            "commit",
			arguments:       []string{"commit", "-m", "Bump version to 1.2.4", "--", "package.json"},
			expectedStart:   "Creating commit with message \"Bump version to 1.2.4\"" + testMessageDirectorySuffixConstant,
			expectedOutcome: "Created commit with message \"Bump version to 1.2.4\"" + testMessageDirectorySuffixConstant,
		},
		{
			name:            "unrecognized_subcommand",
			arguments:       []string{"fetch", "--prune"},
			result:          execshell.ExecutionResult{ExitCode: 2, StandardError: "fatal: remote error"},
			expectedStart:   "Running git fetch --prune" + testMessageDirectorySuffixConstant,
			expectedOutcome: "git fetch --prune" + testMessageDirectorySuffixConstant + " failed with exit code 2: fatal: remote error",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := execshell.ShellCommand{
				Name: execshell.CommandGit,
				Details: execshell.CommandDetails{
					Arguments:        testCase.arguments,
					WorkingDirectory: testMessageWorkingDirectoryConstant,
				},
			}
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(testInstance, testCase.expectedOutcome, formatter.BuildCompletionMessage(command, testCase.result))
		})
	}
}

func TestCommandMessageFormatterToolMessages(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{
		Name:    execshell.CommandName("yarn"),
		Details: execshell.CommandDetails{Arguments: []string{"run", "precommit"}},
	}

	require.Equal(testInstance, "Running yarn run precommit", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Completed yarn run precommit", formatter.BuildSuccessMessage(command))
	require.Equal(testInstance, "yarn run precommit failed with exit code 1", formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 1}))
	require.Equal(testInstance, "yarn run precommit failed: executable file not found", formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found")))
	require.Equal(testInstance, "yarn run precommit failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))

	auditCommand := execshell.ShellCommand{
		Name:    execshell.CommandName("yarn"),
		Details: execshell.CommandDetails{Arguments: []string{"audit"}, StatusIsResult: true},
	}
	require.Equal(testInstance, "yarn audit exited with status 12", formatter.BuildCompletionMessage(auditCommand, execshell.ExecutionResult{ExitCode: 12}))
	require.Equal(testInstance, "Completed yarn audit", formatter.BuildCompletionMessage(auditCommand, execshell.ExecutionResult{}))
}
