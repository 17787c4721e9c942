// Package release drives the release of a package from a release/vX.Y.Z branch.
//
// Service runs an ordered list of gated steps: branch, tag, cleanliness and
// push-state checks, operator confirmation, manifest and changelog checks,
// pre-commit verification, the merge into the trunk branch, pushing the trunk
// and the version tag, and finally provisioning the next release branch. The
// first failing step ends the run. Nothing is rolled back; failures after the
// merge carry a recovery hint instead. In dry-run mode every check and prompt
// still happens while pulls, merges, commits, tags, branch creation and pushes
// are only narrated.
//
// CommandBuilder exposes the workflow as the "release" cobra command.
package release
