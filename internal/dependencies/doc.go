// Package dependencies resolves the collaborators shared by the commands,
// returning injected implementations when present and production defaults otherwise.
package dependencies
