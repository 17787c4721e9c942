// Package toolchain drives the JavaScript package manager and the external
// semantic-version calculator used by the release and audit commands.
package toolchain
