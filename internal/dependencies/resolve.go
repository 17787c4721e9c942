package dependencies

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/execshell"
	"github.com/temirov/pkgchores/internal/prompt"
	"github.com/temirov/pkgchores/internal/ui"
)

// CommandExecutor runs git and other named tools.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteTool(executionContext context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Prompter asks the operator questions.
type Prompter interface {
	Ask(question string, options prompt.Options) (string, error)
	Confirm(question string) (bool, error)
}

// ResolveLogger returns the provided logger or a no-op logger.
func ResolveLogger(existing *zap.Logger) *zap.Logger {
	if existing != nil {
		return existing
	}
	return zap.NewNop()
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default.
// The observer, when set, receives command lifecycle events in place of structured logs.
func ResolveCommandExecutor(existing CommandExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(ResolveLogger(logger), commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveFileSystem returns the provided file system or the OS-backed default.
func ResolveFileSystem(existing afero.Fs) afero.Fs {
	if existing != nil {
		return existing
	}
	return afero.NewOsFs()
}

// ResolvePrompter returns the provided prompter or one reading from input and writing to output.
func ResolvePrompter(existing Prompter, input io.Reader, output io.Writer) Prompter {
	if existing != nil {
		return existing
	}
	return prompt.NewIOPrompter(input, output)
}

// ResolveReporter returns the provided reporter or one writing to the given streams.
func ResolveReporter(existing *ui.Reporter, output io.Writer, errorOutput io.Writer) *ui.Reporter {
	if existing != nil {
		return existing
	}
	return ui.NewReporter(output, errorOutput)
}
