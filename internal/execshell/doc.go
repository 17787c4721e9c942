// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions pkgchores uses to
// run git, the package manager, and the semver calculator in a testable manner.
// Every invocation selects a StreamMode: captured output, the parent's console
// streams, or silence for queries whose failure is an expected answer.
package execshell
