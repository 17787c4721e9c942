// Package cli constructs the pkgchores command-line interface. It wires the
// Cobra command hierarchy to the configuration loader and the zap logger, and
// registers the release, audit and build-dist subcommands.
package cli
