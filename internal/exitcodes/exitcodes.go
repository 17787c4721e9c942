package exitcodes

import (
	"errors"
	"fmt"
)

// Process exit statuses shared by every command.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

const (
	statusErrorTemplateConstant          = "exit status %d"
	statusErrorWithCauseTemplateConstant = "exit status %d: %v"
	declinedDefaultMessageConstant       = "operation declined"
)

type exitCoder interface {
	ExitCode() int
}

type silencer interface {
	IsSilent() bool
}

// DeclinedError reports that an operator answered "no" to a confirmation.
type DeclinedError struct {
	Message string
}

// NewDeclinedError builds a DeclinedError with the provided message.
func NewDeclinedError(message string) DeclinedError {
	return DeclinedError{Message: message}
}

// Error returns the informational message.
func (declined DeclinedError) Error() string {
	if len(declined.Message) == 0 {
		return declinedDefaultMessageConstant
	}
	return declined.Message
}

// ExitCode is always ExitFailure for a declined operation.
func (declined DeclinedError) ExitCode() int {
	return ExitFailure
}

// StatusError carries an explicit exit status. Silent errors are not printed.
type StatusError struct {
	Code   int
	Cause  error
	Silent bool
}

// NewSilentStatusError builds a StatusError whose status is reported only through the process exit code.
func NewSilentStatusError(code int) StatusError {
	return StatusError{Code: code, Silent: true}
}

// Error describes the status.
func (status StatusError) Error() string {
	if status.Cause == nil {
		return fmt.Sprintf(statusErrorTemplateConstant, status.Code)
	}
	return fmt.Sprintf(statusErrorWithCauseTemplateConstant, status.Code, status.Cause)
}

// Unwrap exposes the cause.
func (status StatusError) Unwrap() error {
	return status.Cause
}

// ExitCode returns the carried status.
func (status StatusError) ExitCode() int {
	return status.Code
}

// IsSilent reports whether the error should be printed.
func (status StatusError) IsSilent() bool {
	return status.Silent
}

// Resolve returns the exit status associated with err.
func Resolve(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != ExitSuccess {
			return code
		}
	}
	return ExitFailure
}

// IsDeclined reports whether err stems from a declined confirmation.
func IsDeclined(err error) bool {
	var declined DeclinedError
	return errors.As(err, &declined)
}

// IsSilent reports whether err asks not to be printed.
func IsSilent(err error) bool {
	var silent silencer
	if errors.As(err, &silent) {
		return silent.IsSilent()
	}
	return false
}
