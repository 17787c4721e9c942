// Package exitcodes maps command failures to process exit statuses.
//
// Errors that carry their own status implement ExitCode() int; Resolve walks the
// error chain to find one and falls back to ExitFailure otherwise.
package exitcodes
