// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// RepositoryManager wraps the git invocations used by the release workflow:
// branch and tag queries, cleanliness and push-state checks, and the mutating
// pull, merge, commit, tag and push operations. Queries run silently because a
// non-zero exit status is an expected answer rather than a failure.
package gitrepo
