package toolchain

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/pkgchores/internal/execshell"
)

const (
	toolExecutorNotConfiguredMessageConstant   = "tool executor not configured"
	packageManagerNotConfiguredMessageConstant = "package manager name not configured"
	packageManagerRunSubcommandConstant        = "run"
	packageManagerVersionSubcommandConstant    = "version"
	packageManagerNewVersionFlagConstant       = "--new-version"
	packageManagerNoGitTagFlagConstant         = "--no-git-tag-version"
	packageManagerNoCommitHooksFlagConstant    = "--no-commit-hooks"
	packageManagerAuditSubcommandConstant      = "audit"
	packageManagerLevelFlagConstant            = "--level"
	packageManagerJSONFlagConstant             = "--json"
)

// ErrToolExecutorNotConfigured indicates that no executor was supplied.
var ErrToolExecutorNotConfigured = errors.New(toolExecutorNotConfiguredMessageConstant)

// ErrPackageManagerNotConfigured indicates that the package manager executable name is empty.
var ErrPackageManagerNotConfigured = errors.New(packageManagerNotConfiguredMessageConstant)

// ToolExecutor runs a named executable.
type ToolExecutor interface {
	ExecuteTool(executionContext context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// AuditOptions configures a dependency audit run.
type AuditOptions struct {
	// Level filters the findings shown by the audit tool. Empty means no filter.
	Level string
	// JSON requests machine-readable output.
	JSON bool
}

// PackageManager invokes a yarn-compatible package manager.
type PackageManager struct {
	executor ToolExecutor
	name     execshell.CommandName
}

// NewPackageManager constructs a PackageManager for the named executable.
func NewPackageManager(executor ToolExecutor, name string) (*PackageManager, error) {
	if executor == nil {
		return nil, ErrToolExecutorNotConfigured
	}
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return nil, ErrPackageManagerNotConfigured
	}
	return &PackageManager{executor: executor, name: execshell.CommandName(trimmedName)}, nil
}

// Name returns the executable name.
func (manager *PackageManager) Name() string {
	return string(manager.name)
}

// RunScript runs a package script with the console attached.
func (manager *PackageManager) RunScript(executionContext context.Context, projectPath string, scriptName string) error {
	return manager.runChecked(executionContext, projectPath, execshell.StreamModeInherited, packageManagerRunSubcommandConstant, scriptName)
}

// BumpVersion rewrites the manifest version without tagging or running commit hooks.
func (manager *PackageManager) BumpVersion(executionContext context.Context, projectPath string, version string) error {
	return manager.runChecked(executionContext, projectPath, execshell.StreamModeCaptured,
		packageManagerVersionSubcommandConstant,
		packageManagerNewVersionFlagConstant, version,
		packageManagerNoGitTagFlagConstant,
		packageManagerNoCommitHooksFlagConstant,
	)
}

// Audit runs the dependency audit with the console attached and returns its raw exit status.
func (manager *PackageManager) Audit(executionContext context.Context, projectPath string, options AuditOptions) (int, error) {
	arguments := []string{packageManagerAuditSubcommandConstant}
	if level := strings.TrimSpace(options.Level); len(level) > 0 {
		arguments = append(arguments, packageManagerLevelFlagConstant, level)
	}
	if options.JSON {
		arguments = append(arguments, packageManagerJSONFlagConstant)
	}

	details := manager.details(projectPath, execshell.StreamModeInherited, arguments...)
	details.StatusIsResult = true
	result, executionError := manager.executor.ExecuteTool(executionContext, manager.name, details)
	if executionError != nil {
		return 0, executionError
	}
	return result.ExitCode, nil
}

func (manager *PackageManager) runChecked(executionContext context.Context, projectPath string, streamMode execshell.StreamMode, arguments ...string) error {
	details := manager.details(projectPath, streamMode, arguments...)
	result, executionError := manager.executor.ExecuteTool(executionContext, manager.name, details)
	if executionError != nil {
		return executionError
	}
	if !result.Succeeded() {
		return execshell.NewCommandFailedError(execshell.ShellCommand{Name: manager.name, Details: details}, result)
	}
	return nil
}

func (manager *PackageManager) details(projectPath string, streamMode execshell.StreamMode, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: projectPath,
		StreamMode:       streamMode,
	}
}
