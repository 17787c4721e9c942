// Package audit wraps the package manager's dependency audit.
//
// The audit tool exits with a bit-mask where each set bit flags findings of one
// severity. Service forwards the display options, then suppresses the failure
// when every flagged severity is below the requested minimum.
//
// CommandBuilder exposes the wrapper as the "audit" cobra command.
package audit
