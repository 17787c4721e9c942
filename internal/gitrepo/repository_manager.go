package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/pkgchores/internal/execshell"
)

const (
	gitExecutorNotConfiguredMessageConstant = "git executor not configured"
	unexpectedCommitCountTemplateConstant   = "unexpected commit count %q: %w"
	diffIndexFailureTemplateConstant        = "failed to compare worktree with HEAD: %w"
	tagReferenceTemplateConstant            = "refs/tags/%s"
	remoteBranchReferenceTemplateConstant   = "remotes/%s/%s"
	revisionRangeTemplateConstant           = "%s/%s..%s"
	gitBranchSubcommandConstant             = "branch"
	gitShowCurrentFlagConstant              = "--show-current"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitQuietFlagConstant                    = "-q"
	gitVerifyFlagConstant                   = "--verify"
	gitDiffIndexSubcommandConstant          = "diff-index"
	gitQuietLongFlagConstant                = "--quiet"
	gitHeadReferenceConstant                = "HEAD"
	gitPathSeparatorArgumentConstant        = "--"
	gitRevListSubcommandConstant            = "rev-list"
	gitCountFlagConstant                    = "--count"
	gitPullSubcommandConstant               = "pull"
	gitRebaseFlagConstant                   = "--rebase"
	gitFastForwardOnlyFlagConstant          = "--ff-only"
	gitCheckoutSubcommandConstant           = "checkout"
	gitCreateBranchFlagConstant             = "-b"
	gitMergeSubcommandConstant              = "merge"
	gitNoFastForwardFlagConstant            = "--no-ff"
	gitNoEditFlagConstant                   = "--no-edit"
	gitPushSubcommandConstant               = "push"
	gitSetUpstreamFlagConstant              = "-u"
	gitTagSubcommandConstant                = "tag"
	gitCommitSubcommandConstant             = "commit"
	gitMessageFlagConstant                  = "-m"
	gitShowBranchSubcommandConstant         = "show-branch"
	diffIndexDirtyExitCodeConstant          = 1
)

// ErrGitExecutorNotConfigured indicates that no git executor was supplied.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs typed git operations against a working tree.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CurrentBranch returns the checked-out branch name, or an empty string on a detached HEAD.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	result, executionError := manager.run(executionContext, repositoryPath, execshell.StreamModeCaptured, gitBranchSubcommandConstant, gitShowCurrentFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.OutputWithoutTrailingNewline()), nil
}

// TagExists reports whether the tag is already present locally.
func (manager *RepositoryManager) TagExists(executionContext context.Context, repositoryPath string, tagName string) (bool, error) {
	return manager.query(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitQuietFlagConstant, gitVerifyFlagConstant, fmt.Sprintf(tagReferenceTemplateConstant, tagName))
}

// IsClean reports whether every tracked file matches HEAD.
func (manager *RepositoryManager) IsClean(executionContext context.Context, repositoryPath string) (bool, error) {
	details := manager.details(repositoryPath, execshell.StreamModeSilent, gitDiffIndexSubcommandConstant, gitQuietLongFlagConstant, gitHeadReferenceConstant, gitPathSeparatorArgumentConstant)
	result, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return false, executionError
	}
	switch result.ExitCode {
	case 0:
		return true, nil
	case diffIndexDirtyExitCodeConstant:
		return false, nil
	default:
		return false, fmt.Errorf(diffIndexFailureTemplateConstant, execshell.NewCommandFailedError(execshell.ShellCommand{Name: execshell.CommandGit, Details: details}, result))
	}
}

// CountUnpushedCommits returns the number of commits on branch that are absent from remote/branch.
func (manager *RepositoryManager) CountUnpushedCommits(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (int, error) {
	revisionRange := fmt.Sprintf(revisionRangeTemplateConstant, remoteName, branchName, branchName)
	result, executionError := manager.run(executionContext, repositoryPath, execshell.StreamModeCaptured, gitRevListSubcommandConstant, gitCountFlagConstant, revisionRange)
	if executionError != nil {
		return 0, executionError
	}
	countText := strings.TrimSpace(result.StandardOutput)
	count, parseError := strconv.Atoi(countText)
	if parseError != nil {
		return 0, fmt.Errorf(unexpectedCommitCountTemplateConstant, countText, parseError)
	}
	return count, nil
}

// PullRebase rebases the checked-out branch onto remote/branch.
func (manager *RepositoryManager) PullRebase(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitPullSubcommandConstant, gitRebaseFlagConstant, remoteName, branchName)
}

// PullFastForward fast-forwards the checked-out branch to remote/branch.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitPullSubcommandConstant, gitFastForwardOnlyFlagConstant, remoteName, branchName)
}

// Checkout switches to an existing branch.
func (manager *RepositoryManager) Checkout(executionContext context.Context, repositoryPath string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitCheckoutSubcommandConstant, branchName)
}

// CreateBranch creates a branch from HEAD and switches to it.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitCheckoutSubcommandConstant, gitCreateBranchFlagConstant, branchName)
}

// MergeNoFastForward merges branch into the checked-out branch with an explicit merge commit and no editor.
func (manager *RepositoryManager) MergeNoFastForward(executionContext context.Context, repositoryPath string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitMergeSubcommandConstant, gitNoFastForwardFlagConstant, gitNoEditFlagConstant, branchName)
}

// Push pushes a branch or tag to the remote.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, reference string) error {
	return manager.mutate(executionContext, repositoryPath, gitPushSubcommandConstant, remoteName, reference)
}

// PushUpstream pushes a branch and records the remote as its upstream.
func (manager *RepositoryManager) PushUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	return manager.mutate(executionContext, repositoryPath, gitPushSubcommandConstant, gitSetUpstreamFlagConstant, remoteName, branchName)
}

// CreateTag creates a lightweight tag at HEAD.
func (manager *RepositoryManager) CreateTag(executionContext context.Context, repositoryPath string, tagName string) error {
	return manager.mutate(executionContext, repositoryPath, gitTagSubcommandConstant, tagName)
}

// CommitFiles commits only the listed paths.
func (manager *RepositoryManager) CommitFiles(executionContext context.Context, repositoryPath string, message string, filePaths ...string) error {
	arguments := append([]string{gitCommitSubcommandConstant, gitMessageFlagConstant, message, gitPathSeparatorArgumentConstant}, filePaths...)
	return manager.mutate(executionContext, repositoryPath, arguments...)
}

// LocalBranchExists reports whether a local branch with the name exists.
func (manager *RepositoryManager) LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	return manager.query(executionContext, repositoryPath, gitShowBranchSubcommandConstant, branchName)
}

// RemoteBranchExists reports whether the remote-tracking branch remote/branch exists.
func (manager *RepositoryManager) RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	return manager.query(executionContext, repositoryPath, gitShowBranchSubcommandConstant, fmt.Sprintf(remoteBranchReferenceTemplateConstant, remoteName, branchName))
}

func (manager *RepositoryManager) query(executionContext context.Context, repositoryPath string, arguments ...string) (bool, error) {
	result, executionError := manager.executor.ExecuteGit(executionContext, manager.details(repositoryPath, execshell.StreamModeSilent, arguments...))
	if executionError != nil {
		return false, executionError
	}
	return result.Succeeded(), nil
}

func (manager *RepositoryManager) mutate(executionContext context.Context, repositoryPath string, arguments ...string) error {
	_, executionError := manager.run(executionContext, repositoryPath, execshell.StreamModeCaptured, arguments...)
	return executionError
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, streamMode execshell.StreamMode, arguments ...string) (execshell.ExecutionResult, error) {
	details := manager.details(repositoryPath, streamMode, arguments...)
	result, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return execshell.ExecutionResult{}, executionError
	}
	if !result.Succeeded() {
		return result, execshell.NewCommandFailedError(execshell.ShellCommand{Name: execshell.CommandGit, Details: details}, result)
	}
	return result, nil
}

func (manager *RepositoryManager) details(repositoryPath string, streamMode execshell.StreamMode, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		StreamMode:       streamMode,
	}
}
