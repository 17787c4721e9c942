package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/temirov/pkgchores/internal/execshell"
)

const (
	semverCommandNotConfiguredMessageConstant = "semver command not configured"
	unsupportedBumpKindTemplateConstant       = "unsupported bump kind %q (expected one of %s)"
	invalidComputedVersionTemplateConstant    = "%s returned %q, which is not a semantic version"
	versionNotIncreasedTemplateConstant       = "computed version %s is not greater than %s"
	semverIncrementFlagConstant               = "-i"
	semverComparisonPrefixConstant            = "v"
	bumpKindSeparatorConstant                 = ", "
)

// BumpKind names the semantic-version component to increment.
type BumpKind string

// Supported bump kinds.
const (
	BumpKindMajor BumpKind = "major"
	BumpKindMinor BumpKind = "minor"
	BumpKindPatch BumpKind = "patch"
	BumpKindNone  BumpKind = "none"
)

// BumpKindChoices lists the accepted bump kinds in prompt order.
func BumpKindChoices() []string {
	return []string{string(BumpKindMajor), string(BumpKindMinor), string(BumpKindPatch), string(BumpKindNone)}
}

// ParseBumpKind converts user input into a BumpKind.
func ParseBumpKind(value string) (BumpKind, error) {
	normalized := BumpKind(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case BumpKindMajor, BumpKindMinor, BumpKindPatch, BumpKindNone:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedBumpKindTemplateConstant, value, strings.Join(BumpKindChoices(), bumpKindSeparatorConstant))
	}
}

// ErrSemverCommandNotConfigured indicates that the semver executable name is empty.
var ErrSemverCommandNotConfigured = errors.New(semverCommandNotConfiguredMessageConstant)

// VersionCalculator computes the next version with an external semver increment command.
type VersionCalculator struct {
	executor ToolExecutor
	command  execshell.CommandName
}

// NewVersionCalculator constructs a VersionCalculator for the named executable.
func NewVersionCalculator(executor ToolExecutor, command string) (*VersionCalculator, error) {
	if executor == nil {
		return nil, ErrToolExecutorNotConfigured
	}
	trimmedCommand := strings.TrimSpace(command)
	if len(trimmedCommand) == 0 {
		return nil, ErrSemverCommandNotConfigured
	}
	return &VersionCalculator{executor: executor, command: execshell.CommandName(trimmedCommand)}, nil
}

// Increment returns the version following currentVersion for the bump kind.
// The result must be a valid semantic version strictly greater than currentVersion.
func (calculator *VersionCalculator) Increment(executionContext context.Context, projectPath string, kind BumpKind, currentVersion string) (string, error) {
	if kind == BumpKindNone {
		return "", fmt.Errorf(unsupportedBumpKindTemplateConstant, kind, strings.Join(BumpKindChoices()[:3], bumpKindSeparatorConstant))
	}

	details := execshell.CommandDetails{
		Arguments:        []string{semverIncrementFlagConstant, string(kind), currentVersion},
		WorkingDirectory: projectPath,
		StreamMode:       execshell.StreamModeCaptured,
	}
	result, executionError := calculator.executor.ExecuteTool(executionContext, calculator.command, details)
	if executionError != nil {
		return "", executionError
	}
	if !result.Succeeded() {
		return "", execshell.NewCommandFailedError(execshell.ShellCommand{Name: calculator.command, Details: details}, result)
	}

	nextVersion := strings.TrimSpace(result.OutputWithoutTrailingNewline())
	if !semver.IsValid(semverComparisonPrefixConstant + nextVersion) {
		return "", fmt.Errorf(invalidComputedVersionTemplateConstant, calculator.command, nextVersion)
	}
	if semver.Compare(semverComparisonPrefixConstant+nextVersion, semverComparisonPrefixConstant+currentVersion) <= 0 {
		return "", fmt.Errorf(versionNotIncreasedTemplateConstant, nextVersion, currentVersion)
	}
	return nextVersion, nil
}
