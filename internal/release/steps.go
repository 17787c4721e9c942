package release

import (
	"context"
	"fmt"
	"regexp"

	"github.com/temirov/pkgchores/internal/exitcodes"
	"github.com/temirov/pkgchores/internal/prompt"
	"github.com/temirov/pkgchores/internal/toolchain"
)

const (
	tagTemplateConstant                       = "v%s"
	releaseBranchTemplateConstant             = "release/v%s"
	remoteTrackingTemplateConstant            = "%s/%s"
	bumpCommitMessageTemplateConstant         = "Bump version to %s"
	hardResetHintTemplateConstant             = "git reset --hard %s"
	tagPushHintTemplateConstant               = "git push %s %s"
	currentBranchFailureTemplateConstant      = "failed to determine the current branch: %w"
	notReleaseBranchTemplateConstant          = "current branch %q is not a release branch (expected release/vX.Y.Z)"
	detachedHeadMessageConstant               = "cannot determine the current branch (detached HEAD?)"
	tagLookupFailureTemplateConstant          = "failed to look up tag %s: %w"
	tagExistsTemplateConstant                 = "tag %s already exists"
	cleanCheckFailureTemplateConstant         = "failed to check the working tree: %w"
	dirtyWorktreeMessageConstant              = "working tree has uncommitted changes to tracked files"
	pushedCheckFailureTemplateConstant        = "failed to compare %s with %s: %w"
	unpushedCommitsTemplateConstant           = "branch %s has %d commit(s) not pushed to %s"
	confirmReleaseQuestionTemplateConstant    = "Release version %s?"
	releaseDeclinedMessageConstant            = "Release aborted."
	syncFailureTemplateConstant               = "failed to sync %s with %s: %w"
	manifestReadFailureTemplateConstant       = "failed to read the manifest version: %w"
	manifestMismatchTemplateConstant          = "%s declares version %s but the release branch is for %s"
	changelogReadFailureTemplateConstant      = "failed to read the changelog: %w"
	changelogMissingTemplateConstant          = "%s has no heading for version %s"
	precommitFailureTemplateConstant          = "pre-commit verification failed: %w"
	mergePrecommitFailureTemplateConstant     = "pre-commit verification failed after merging into %s: %w"
	checkoutFailureTemplateConstant           = "failed to switch to %s: %w"
	trunkSyncFailureTemplateConstant          = "failed to fast-forward %s from %s: %w"
	mergeFailureTemplateConstant              = "failed to merge %s into %s: %w"
	confirmPushQuestionTemplateConstant       = "Push %s to %s?"
	pushDeclinedTemplateConstant              = "Push aborted. %s still holds the unpushed merge of %s."
	pushFailureTemplateConstant               = "failed to push %s to %s: %w"
	confirmTagQuestionTemplateConstant        = "Create and push tag %s?"
	tagDeclinedTemplateConstant               = "Tagging aborted. %s was pushed without tag %s."
	tagCreateFailureTemplateConstant          = "failed to create tag %s: %w"
	tagPushFailureTemplateConstant            = "failed to push tag %s to %s: %w"
	bumpQuestionConstant                      = "Bump kind for the next release"
	bumpKindFailureTemplateConstant           = "failed to choose the next bump kind: %w"
	incrementFailureTemplateConstant          = "failed to compute the next version: %w"
	branchQueryFailureTemplateConstant        = "failed to look up branch %s: %w"
	localBranchExistsTemplateConstant         = "branch %s already exists locally"
	remoteBranchExistsTemplateConstant        = "branch %s already exists on %s"
	createBranchFailureTemplateConstant       = "failed to create branch %s: %w"
	bumpVersionFailureTemplateConstant        = "failed to set the manifest version to %s: %w"
	commitFailureTemplateConstant             = "failed to commit %s: %w"
	confirmBranchPushQuestionTemplateConstant = "Push %s to %s?"
	branchPushDeclinedTemplateConstant        = "Push aborted. %s exists only locally."
	branchPushFailureTemplateConstant         = "failed to push %s to %s: %w"
	releasingMessageTemplateConstant          = "Releasing version %s from %s"
	dryRunPullMessageTemplateConstant         = "Skipping git pull --rebase %s %s"
	dryRunMergeMessageTemplateConstant        = "Skipping merge of %s into %s"
	dryRunPushMessageTemplateConstant         = "Skipping git push %s %s"
	dryRunTagMessageTemplateConstant          = "Skipping creation of tag %s"
	dryRunBranchMessageTemplateConstant       = "Skipping creation of branch %s"
	changelogSkippedMessageConstant           = "Skipping changelog check"
	releasedMessageTemplateConstant           = "Released %s"
	noNextBranchMessageConstant               = "No next release branch requested"
	nextBranchCreatedMessageTemplateConstant  = "Created %s for version %s"
	dryRunCompletedMessageTemplateConstant    = "Dry run of %s completed"
)

var releaseBranchPattern = regexp.MustCompile(`^release/v(\d+\.\d+\.\d+)$`)

// ParseReleaseBranch extracts the version number from a release branch name.
func ParseReleaseBranch(branchName string) (string, bool) {
	matches := releaseBranchPattern.FindStringSubmatch(branchName)
	if matches == nil {
		return "", false
	}
	return matches[1], true
}

func (service *Service) validateBranch(executionContext context.Context, state *releaseState) error {
	branchName, branchError := service.repository.CurrentBranch(executionContext, state.options.RepositoryPath)
	if branchError != nil {
		return fmt.Errorf(currentBranchFailureTemplateConstant, branchError)
	}
	if len(branchName) == 0 {
		return PreconditionError{Message: detachedHeadMessageConstant}
	}
	version, matched := ParseReleaseBranch(branchName)
	if !matched {
		return newPreconditionError(notReleaseBranchTemplateConstant, branchName)
	}

	state.branchName = branchName
	state.version = version
	state.tagName = fmt.Sprintf(tagTemplateConstant, version)
	service.reporter.Infof(releasingMessageTemplateConstant, version, branchName)
	return nil
}

func (service *Service) checkTagAbsent(executionContext context.Context, state *releaseState) error {
	exists, lookupError := service.repository.TagExists(executionContext, state.options.RepositoryPath, state.tagName)
	if lookupError != nil {
		return fmt.Errorf(tagLookupFailureTemplateConstant, state.tagName, lookupError)
	}
	if exists {
		return newPreconditionError(tagExistsTemplateConstant, state.tagName)
	}
	return nil
}

func (service *Service) checkClean(executionContext context.Context, state *releaseState) error {
	clean, cleanError := service.repository.IsClean(executionContext, state.options.RepositoryPath)
	if cleanError != nil {
		return fmt.Errorf(cleanCheckFailureTemplateConstant, cleanError)
	}
	if !clean {
		return PreconditionError{Message: dirtyWorktreeMessageConstant}
	}
	return nil
}

func (service *Service) checkPushed(executionContext context.Context, state *releaseState) error {
	remoteBranch := fmt.Sprintf(remoteTrackingTemplateConstant, state.options.RemoteName, state.branchName)
	unpushed, countError := service.repository.CountUnpushedCommits(executionContext, state.options.RepositoryPath, state.options.RemoteName, state.branchName)
	if countError != nil {
		return fmt.Errorf(pushedCheckFailureTemplateConstant, state.branchName, remoteBranch, countError)
	}
	if unpushed != 0 {
		return newPreconditionError(unpushedCommitsTemplateConstant, state.branchName, unpushed, state.options.RemoteName)
	}
	return nil
}

func (service *Service) confirmRelease(_ context.Context, state *releaseState) error {
	return service.confirm(fmt.Sprintf(confirmReleaseQuestionTemplateConstant, state.version), releaseDeclinedMessageConstant)
}

func (service *Service) syncBranch(executionContext context.Context, state *releaseState) error {
	if state.options.DryRun {
		service.reporter.DryRunf(dryRunPullMessageTemplateConstant, state.options.RemoteName, state.branchName)
		return nil
	}
	if pullError := service.repository.PullRebase(executionContext, state.options.RepositoryPath, state.options.RemoteName, state.branchName); pullError != nil {
		return fmt.Errorf(syncFailureTemplateConstant, state.branchName, state.options.RemoteName, pullError)
	}
	return nil
}

func (service *Service) checkManifest(_ context.Context, state *releaseState) error {
	manifestVersion, manifestError := service.documents.ManifestVersion(state.projectPath(state.options.ManifestPath))
	if manifestError != nil {
		return fmt.Errorf(manifestReadFailureTemplateConstant, manifestError)
	}
	if manifestVersion != state.version {
		return newPreconditionError(manifestMismatchTemplateConstant, state.options.ManifestPath, manifestVersion, state.version)
	}
	return nil
}

func (service *Service) checkChangelog(_ context.Context, state *releaseState) error {
	if state.options.IgnoreChangelog {
		service.reporter.Infof(changelogSkippedMessageConstant)
		return nil
	}
	found, changelogError := service.documents.ChangelogContainsVersion(state.projectPath(state.options.ChangelogPath), state.version)
	if changelogError != nil {
		return fmt.Errorf(changelogReadFailureTemplateConstant, changelogError)
	}
	if !found {
		return newPreconditionError(changelogMissingTemplateConstant, state.options.ChangelogPath, state.version)
	}
	return nil
}

func (service *Service) verifyPrecommit(executionContext context.Context, state *releaseState) error {
	if scriptError := service.packageManager.RunScript(executionContext, state.options.RepositoryPath, state.options.PrecommitScript); scriptError != nil {
		return fmt.Errorf(precommitFailureTemplateConstant, scriptError)
	}
	return nil
}

func (service *Service) mergeIntoTrunk(executionContext context.Context, state *releaseState) error {
	options := state.options
	if options.DryRun {
		service.reporter.DryRunf(dryRunMergeMessageTemplateConstant, state.branchName, options.TrunkBranch)
		return nil
	}

	recoveryHint := service.trunkResetHint(state)
	if checkoutError := service.repository.Checkout(executionContext, options.RepositoryPath, options.TrunkBranch); checkoutError != nil {
		return RecoveryRequiredError{Cause: fmt.Errorf(checkoutFailureTemplateConstant, options.TrunkBranch, checkoutError), Hint: recoveryHint}
	}
	if pullError := service.repository.PullFastForward(executionContext, options.RepositoryPath, options.RemoteName, options.TrunkBranch); pullError != nil {
		return RecoveryRequiredError{Cause: fmt.Errorf(trunkSyncFailureTemplateConstant, options.TrunkBranch, options.RemoteName, pullError), Hint: recoveryHint}
	}
	if mergeError := service.repository.MergeNoFastForward(executionContext, options.RepositoryPath, state.branchName); mergeError != nil {
		return RecoveryRequiredError{Cause: fmt.Errorf(mergeFailureTemplateConstant, state.branchName, options.TrunkBranch, mergeError), Hint: recoveryHint}
	}
	if scriptError := service.packageManager.RunScript(executionContext, options.RepositoryPath, options.PrecommitScript); scriptError != nil {
		return RecoveryRequiredError{Cause: fmt.Errorf(mergePrecommitFailureTemplateConstant, options.TrunkBranch, scriptError), Hint: recoveryHint}
	}
	return nil
}

func (service *Service) publish(executionContext context.Context, state *releaseState) error {
	options := state.options

	pushDeclined := fmt.Sprintf(pushDeclinedTemplateConstant, options.TrunkBranch, state.branchName)
	if confirmError := service.confirm(fmt.Sprintf(confirmPushQuestionTemplateConstant, options.TrunkBranch, options.RemoteName), pushDeclined); confirmError != nil {
		return confirmError
	}
	if options.DryRun {
		service.reporter.DryRunf(dryRunPushMessageTemplateConstant, options.RemoteName, options.TrunkBranch)
	} else if pushError := service.repository.Push(executionContext, options.RepositoryPath, options.RemoteName, options.TrunkBranch); pushError != nil {
		return RecoveryRequiredError{Cause: fmt.Errorf(pushFailureTemplateConstant, options.TrunkBranch, options.RemoteName, pushError), Hint: service.trunkResetHint(state)}
	}

	tagDeclined := fmt.Sprintf(tagDeclinedTemplateConstant, options.TrunkBranch, state.tagName)
	if confirmError := service.confirm(fmt.Sprintf(confirmTagQuestionTemplateConstant, state.tagName), tagDeclined); confirmError != nil {
		return confirmError
	}
	if options.DryRun {
		service.reporter.DryRunf(dryRunTagMessageTemplateConstant, state.tagName)
		service.reporter.DryRunf(dryRunPushMessageTemplateConstant, options.RemoteName, state.tagName)
		return nil
	}
	if tagError := service.repository.CreateTag(executionContext, options.RepositoryPath, state.tagName); tagError != nil {
		return fmt.Errorf(tagCreateFailureTemplateConstant, state.tagName, tagError)
	}
	if pushError := service.repository.Push(executionContext, options.RepositoryPath, options.RemoteName, state.tagName); pushError != nil {
		return RecoveryRequiredError{
			Cause: fmt.Errorf(tagPushFailureTemplateConstant, state.tagName, options.RemoteName, pushError),
			Hint:  fmt.Sprintf(tagPushHintTemplateConstant, options.RemoteName, state.tagName),
		}
	}
	service.reporter.Successf(releasedMessageTemplateConstant, state.tagName)
	return nil
}

func (service *Service) provisionNextBranch(executionContext context.Context, state *releaseState) error {
	options := state.options

	answer, askError := service.prompter.Ask(bumpQuestionConstant, prompt.Options{Choices: toolchain.BumpKindChoices(), Default: string(toolchain.BumpKindNone)})
	if askError != nil {
		return fmt.Errorf(bumpKindFailureTemplateConstant, askError)
	}
	kind, parseError := toolchain.ParseBumpKind(answer)
	if parseError != nil {
		return fmt.Errorf(bumpKindFailureTemplateConstant, parseError)
	}
	if kind == toolchain.BumpKindNone {
		service.reporter.Infof(noNextBranchMessageConstant)
		return service.finish(state)
	}

	nextVersion, incrementError := service.versionCalculator.Increment(executionContext, options.RepositoryPath, kind, state.version)
	if incrementError != nil {
		return fmt.Errorf(incrementFailureTemplateConstant, incrementError)
	}
	state.nextVersion = nextVersion
	state.nextBranch = fmt.Sprintf(releaseBranchTemplateConstant, nextVersion)

	localExists, localError := service.repository.LocalBranchExists(executionContext, options.RepositoryPath, state.nextBranch)
	if localError != nil {
		return fmt.Errorf(branchQueryFailureTemplateConstant, state.nextBranch, localError)
	}
	if localExists {
		return newPreconditionError(localBranchExistsTemplateConstant, state.nextBranch)
	}
	remoteExists, remoteError := service.repository.RemoteBranchExists(executionContext, options.RepositoryPath, options.RemoteName, state.nextBranch)
	if remoteError != nil {
		return fmt.Errorf(branchQueryFailureTemplateConstant, state.nextBranch, remoteError)
	}
	if remoteExists {
		return newPreconditionError(remoteBranchExistsTemplateConstant, state.nextBranch, options.RemoteName)
	}

	if options.DryRun {
		service.reporter.DryRunf(dryRunBranchMessageTemplateConstant, state.nextBranch)
		return service.finish(state)
	}

	if createError := service.repository.CreateBranch(executionContext, options.RepositoryPath, state.nextBranch); createError != nil {
		return fmt.Errorf(createBranchFailureTemplateConstant, state.nextBranch, createError)
	}
	if bumpError := service.packageManager.BumpVersion(executionContext, options.RepositoryPath, nextVersion); bumpError != nil {
		return fmt.Errorf(bumpVersionFailureTemplateConstant, nextVersion, bumpError)
	}
	commitMessage := fmt.Sprintf(bumpCommitMessageTemplateConstant, nextVersion)
	if commitError := service.repository.CommitFiles(executionContext, options.RepositoryPath, commitMessage, options.ManifestPath); commitError != nil {
		return fmt.Errorf(commitFailureTemplateConstant, options.ManifestPath, commitError)
	}

	branchDeclined := fmt.Sprintf(branchPushDeclinedTemplateConstant, state.nextBranch)
	if confirmError := service.confirm(fmt.Sprintf(confirmBranchPushQuestionTemplateConstant, state.nextBranch, options.RemoteName), branchDeclined); confirmError != nil {
		return confirmError
	}
	if pushError := service.repository.PushUpstream(executionContext, options.RepositoryPath, options.RemoteName, state.nextBranch); pushError != nil {
		return fmt.Errorf(branchPushFailureTemplateConstant, state.nextBranch, options.RemoteName, pushError)
	}
	service.reporter.Successf(nextBranchCreatedMessageTemplateConstant, state.nextBranch, nextVersion)
	return nil
}

func (service *Service) finish(state *releaseState) error {
	if state.options.DryRun {
		service.reporter.Successf(dryRunCompletedMessageTemplateConstant, state.tagName)
	}
	return nil
}

func (service *Service) confirm(question string, declinedMessage string) error {
	confirmed, confirmError := service.prompter.Confirm(question)
	if confirmError != nil {
		return confirmError
	}
	if !confirmed {
		return exitcodes.NewDeclinedError(declinedMessage)
	}
	return nil
}

func (service *Service) trunkResetHint(state *releaseState) string {
	return fmt.Sprintf(hardResetHintTemplateConstant, fmt.Sprintf(remoteTrackingTemplateConstant, state.options.RemoteName, state.options.TrunkBranch))
}
