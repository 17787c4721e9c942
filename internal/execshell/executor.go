package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandFailedTemplateConstant             = "%s exited with status %d"
	commandFailedWithOutputTemplateConstant   = "%s exited with status %d: %s"
	commandExecutionFailedTemplateConstant    = "%s could not be started: %v"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStreamModeConstant                = "stream_mode"
	trailingNewlineConstant                   = "\n"
	trailingCarriageReturnConstant            = "\r"
)

// CommandName identifies an executable invoked through the executor.
type CommandName string

// CommandGit identifies the git executable.
const CommandGit CommandName = "git"

// StreamMode selects how a child process is connected to the console.
type StreamMode int

// Supported stream modes.
const (
	// StreamModeCaptured buffers standard output and standard error into the ExecutionResult.
	StreamModeCaptured StreamMode = iota
	// StreamModeInherited connects the child to the parent's console streams.
	StreamModeInherited
	// StreamModeSilent discards all output and suppresses failure logging.
	StreamModeSilent
)

// String returns a stable label for logging.
func (mode StreamMode) String() string {
	switch mode {
	case StreamModeInherited:
		return "inherited"
	case StreamModeSilent:
		return "silent"
	default:
		return "captured"
	}
}

// CommandDetails describes the arguments and environment of an invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	StreamMode           StreamMode
	// StatusIsResult marks the exit status as data for the caller, so a non-zero status is not logged as a failure.
	StatusIsResult bool
}

// ShellCommand pairs an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// String renders the command line for diagnostics.
func (command ShellCommand) String() string {
	parts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(parts, " ")
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Succeeded reports whether the process exited with status zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0
}

// OutputWithoutTrailingNewline returns standard output with one trailing line break removed.
func (result ExecutionResult) OutputWithoutTrailingNewline() string {
	output := strings.TrimSuffix(result.StandardOutput, trailingNewlineConstant)
	return strings.TrimSuffix(output, trailingCarriageReturnConstant)
}

// CommandRunner launches a process and waits for it to finish.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates a nil logger was supplied to NewShellExecutor.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates a nil runner was supplied to NewShellExecutor.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a process that ran to completion with a non-zero exit status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// NewCommandFailedError wraps a non-zero result for callers that treat it as a failure.
func NewCommandFailedError(command ShellCommand, result ExecutionResult) CommandFailedError {
	return CommandFailedError{Command: command, Result: result}
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	standardError := strings.TrimSpace(failure.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.String(), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputTemplateConstant, failure.Command.String(), failure.Result.ExitCode, standardError)
}

// ExitCode propagates the child's exit status.
func (failure CommandFailedError) ExitCode() int {
	if failure.Result.ExitCode <= 0 {
		return 1
	}
	return failure.Result.ExitCode
}

// CommandExecutionError reports a process that could not be launched.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the launch failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.String(), failure.Cause)
}

// Unwrap exposes the underlying launch error.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs an executor that logs lifecycle events with zap.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs an executor that delegates lifecycle reporting to observer when provided.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: observer}, nil
}

// Execute runs the command. A non-zero exit status is returned as a normal result;
// the error is reserved for processes that could not be launched.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	silent := command.Details.StreamMode == StreamModeSilent
	if !silent {
		executor.reportStarted(command)
	}

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		if !silent {
			executor.reportExecutionFailure(command, runError)
		}
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if !silent {
		executor.reportCompleted(command, result)
	}
	return result, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteTool runs an arbitrary named executable such as the package manager or semver calculator.
func (executor *ShellExecutor) ExecuteTool(executionContext context.Context, name CommandName, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: name, Details: details})
}

func (executor *ShellExecutor) reportStarted(command ShellCommand) {
	if executor.observer != nil {
		executor.observer.CommandStarted(command)
		return
	}
	executor.logger.Debug(commandFormatter.BuildStartedMessage(command), executor.commandFields(command)...)
}

func (executor *ShellExecutor) reportCompleted(command ShellCommand, result ExecutionResult) {
	if executor.observer != nil {
		executor.observer.CommandCompleted(command, result)
		return
	}
	fields := append(executor.commandFields(command), zap.Int(logFieldExitCodeConstant, result.ExitCode))
	if result.Succeeded() || command.Details.StatusIsResult {
		executor.logger.Debug(commandFormatter.BuildCompletionMessage(command, result), fields...)
		return
	}
	executor.logger.Warn(commandFormatter.BuildFailureMessage(command, result), fields...)
}

func (executor *ShellExecutor) reportExecutionFailure(command ShellCommand, failure error) {
	if executor.observer != nil {
		executor.observer.CommandExecutionFailed(command, failure)
		return
	}
	fields := append(executor.commandFields(command), zap.Error(failure))
	executor.logger.Error(commandFormatter.BuildExecutionFailureMessage(command, failure), fields...)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Stringer(logFieldStreamModeConstant, command.Details.StreamMode),
	}
}

var commandFormatter = CommandMessageFormatter{}
