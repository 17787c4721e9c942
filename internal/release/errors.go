package release

import (
	"errors"
	"fmt"

	"github.com/temirov/pkgchores/internal/exitcodes"
)

const (
	repositoryNotConfiguredMessageConstant        = "release repository manager not configured"
	packageManagerNotConfiguredMessageConstant    = "release package manager not configured"
	versionCalculatorNotConfiguredMessageConstant = "release version calculator not configured"
	documentsNotConfiguredMessageConstant         = "release document reader not configured"
	prompterNotConfiguredMessageConstant          = "release prompter not configured"
	reporterNotConfiguredMessageConstant          = "release reporter not configured"
	recoveryRequiredTemplateConstant              = "%v; to recover run: %s"
)

// ErrRepositoryNotConfigured indicates the git repository manager is missing.
var ErrRepositoryNotConfigured = errors.New(repositoryNotConfiguredMessageConstant)

// ErrPackageManagerNotConfigured indicates the package manager is missing.
var ErrPackageManagerNotConfigured = errors.New(packageManagerNotConfiguredMessageConstant)

// ErrVersionCalculatorNotConfigured indicates the version calculator is missing.
var ErrVersionCalculatorNotConfigured = errors.New(versionCalculatorNotConfiguredMessageConstant)

// ErrDocumentsNotConfigured indicates the document reader is missing.
var ErrDocumentsNotConfigured = errors.New(documentsNotConfiguredMessageConstant)

// ErrPrompterNotConfigured indicates the prompter is missing.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessageConstant)

// ErrReporterNotConfigured indicates the reporter is missing.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)

// PreconditionError reports repository or project state that forbids releasing.
type PreconditionError struct {
	Message string
}

// Error returns the precondition message.
func (precondition PreconditionError) Error() string {
	return precondition.Message
}

// ExitCode is always ExitFailure for a violated precondition.
func (precondition PreconditionError) ExitCode() int {
	return exitcodes.ExitFailure
}

func newPreconditionError(format string, arguments ...any) PreconditionError {
	return PreconditionError{Message: fmt.Sprintf(format, arguments...)}
}

// RecoveryRequiredError reports a failure that left the repository partially updated.
// Hint is a command the operator can run to restore a known state.
type RecoveryRequiredError struct {
	Cause error
	Hint  string
}

// Error describes the failure together with the recovery hint.
func (recovery RecoveryRequiredError) Error() string {
	return fmt.Sprintf(recoveryRequiredTemplateConstant, recovery.Cause, recovery.Hint)
}

// Unwrap exposes the failing cause so its exit status propagates.
func (recovery RecoveryRequiredError) Unwrap() error {
	return recovery.Cause
}
