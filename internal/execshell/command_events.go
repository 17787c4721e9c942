package execshell

// CommandEventObserver receives lifecycle notifications for non-silent command executions.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the process exited and supplies its result, whatever the exit status.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports processes that could not be launched.
	CommandExecutionFailed(command ShellCommand, failure error)
}
