package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/pkgchores/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testSilentFailureCaseNameConstant            = "silent_failure"
	testSilentRunnerErrorCaseNameConstant        = "silent_runner_error"
	testStatusResultCaseNameConstant             = "status_is_result"
	testCommandArgumentConstant                  = "--version"
	testWorkingDirectoryConstant                 = "."
	testStandardErrorOutputConstant              = "failure"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingObserver struct {
	started   []execshell.ShellCommand
	completed []execshell.ExecutionResult
	failures  []error
}

func (observer *recordingObserver) CommandStarted(command execshell.ShellCommand) {
	observer.started = append(observer.started, command)
}

func (observer *recordingObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observer.completed = append(observer.completed, result)
}

func (observer *recordingObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observer.failures = append(observer.failures, failure)
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		streamMode       execshell.StreamMode
		statusIsResult   bool
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectLaunchFail bool
		expectedLogCount int
		expectedLevel    zapcore.Level
	}{
		{
			name:             testExecutionSuccessCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{StandardOutput: "ok", ExitCode: 0},
			expectedLogCount: 2,
			expectedLevel:    zapcore.DebugLevel,
		},
		{
			name:             testExecutionFailureCaseNameConstant,
			runnerResult:     execshell.ExecutionResult{StandardError: testStandardErrorOutputConstant, ExitCode: 1},
			expectedLogCount: 2,
			expectedLevel:    zapcore.WarnLevel,
		},
		{
			name:             testStatusResultCaseNameConstant,
			statusIsResult:   true,
			runnerResult:     execshell.ExecutionResult{ExitCode: 12},
			expectedLogCount: 2,
			expectedLevel:    zapcore.DebugLevel,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectLaunchFail: true,
			expectedLogCount: 2,
			expectedLevel:    zapcore.ErrorLevel,
		},
		{
			name:             testSilentFailureCaseNameConstant,
			streamMode:       execshell.StreamModeSilent,
			runnerResult:     execshell.ExecutionResult{ExitCode: 1},
			expectedLogCount: 0,
		},
		{
			name:             testSilentRunnerErrorCaseNameConstant,
			streamMode:       execshell.StreamModeSilent,
			runnerError:      errors.New("runner failure"),
			expectLaunchFail: true,
			expectedLogCount: 0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			commandDetails := execshell.CommandDetails{
				Arguments:        []string{testCommandArgumentConstant},
				WorkingDirectory: testWorkingDirectoryConstant,
				StreamMode:       testCase.streamMode,
				StatusIsResult:   testCase.statusIsResult,
			}
			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), commandDetails)

			if testCase.expectLaunchFail {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, execshell.CommandExecutionError{}, executionError)
				require.ErrorIs(testInstance, executionError, testCase.runnerError)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult, executionResult)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			if testCase.expectedLogCount > 0 {
				entries := observerLogs.All()
				require.Equal(testInstance, testCase.expectedLevel, entries[len(entries)-1].Level)
			}
		})
	}
}

func TestShellExecutorDelegatesToObserver(testInstance *testing.T) {
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	eventObserver := &recordingObserver{}
	recordingRunner := &recordingCommandRunner{executionResult: execshell.ExecutionResult{ExitCode: 3}}

	executor, creationError := execshell.NewShellExecutorWithObserver(zap.New(observerCore), recordingRunner, eventObserver)
	require.NoError(testInstance, creationError)

	result, executionError := executor.ExecuteTool(context.Background(), execshell.CommandName("yarn"), execshell.CommandDetails{Arguments: []string{"audit"}})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, 3, result.ExitCode)

	require.Len(testInstance, eventObserver.started, 1)
	require.Len(testInstance, eventObserver.completed, 1)
	require.Empty(testInstance, eventObserver.failures)
	require.Empty(testInstance, observerLogs.All())
	require.Equal(testInstance, execshell.CommandName("yarn"), recordingRunner.recordedCommands[0].Name)
}

func TestCommandFailedErrorPropagatesExitCode(testInstance *testing.T) {
	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"merge", "--no-ff", "release/v1.2.3"}}}

	failure := execshell.NewCommandFailedError(command, execshell.ExecutionResult{ExitCode: 128, StandardError: "conflict\n"})
	require.Equal(testInstance, 128, failure.ExitCode())
	require.Equal(testInstance, "git merge --no-ff release/v1.2.3 exited with status 128: conflict", failure.Error())

	signalled := execshell.NewCommandFailedError(command, execshell.ExecutionResult{ExitCode: -1})
	require.Equal(testInstance, 1, signalled.ExitCode())
}

func TestExecutionResultOutputWithoutTrailingNewline(testInstance *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected string
	}{
		{name: "unix_newline", output: "release/v1.2.3\n", expected: "release/v1.2.3"},
		{name: "windows_newline", output: "release/v1.2.3\r\n", expected: "release/v1.2.3"},
		{name: "single_newline_only", output: "a\n\n", expected: "a\n"},
		{name: "no_newline", output: "0", expected: "0"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result := execshell.ExecutionResult{StandardOutput: testCase.output}
			require.Equal(testInstance, testCase.expected, result.OutputWithoutTrailingNewline())
		})
	}
}
