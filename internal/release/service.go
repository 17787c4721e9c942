package release

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/prompt"
	"github.com/temirov/pkgchores/internal/toolchain"
)

const (
	logFieldStepConstant          = "step"
	logFieldDryRunConstant        = "dry_run"
	logFieldBranchConstant        = "branch"
	stepStartedLogMessageConstant = "release step started"
	stepFailedLogMessageConstant  = "release step failed"
)

// GitRepository exposes the git operations used by the release workflow.
type GitRepository interface {
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	TagExists(executionContext context.Context, repositoryPath string, tagName string) (bool, error)
	IsClean(executionContext context.Context, repositoryPath string) (bool, error)
	CountUnpushedCommits(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (int, error)
	PullRebase(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	PullFastForward(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	Checkout(executionContext context.Context, repositoryPath string, branchName string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	MergeNoFastForward(executionContext context.Context, repositoryPath string, branchName string) error
	Push(executionContext context.Context, repositoryPath string, remoteName string, reference string) error
	PushUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	CreateTag(executionContext context.Context, repositoryPath string, tagName string) error
	CommitFiles(executionContext context.Context, repositoryPath string, message string, filePaths ...string) error
	LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error)
}

// PackageManager runs package scripts and rewrites the manifest version.
type PackageManager interface {
	RunScript(executionContext context.Context, projectPath string, scriptName string) error
	BumpVersion(executionContext context.Context, projectPath string, version string) error
}

// VersionCalculator computes the version following a release.
type VersionCalculator interface {
	Increment(executionContext context.Context, projectPath string, kind toolchain.BumpKind, currentVersion string) (string, error)
}

// DocumentReader reads the project manifest and changelog.
type DocumentReader interface {
	ManifestVersion(manifestPath string) (string, error)
	ChangelogContainsVersion(changelogPath string, version string) (bool, error)
}

// Prompter asks the operator questions.
type Prompter interface {
	Ask(question string, options prompt.Options) (string, error)
	Confirm(question string) (bool, error)
}

// Reporter narrates progress to the operator.
type Reporter interface {
	Infof(format string, arguments ...any)
	Successf(format string, arguments ...any)
	DryRunf(format string, arguments ...any)
}

// Options configures one release run.
type Options struct {
	RepositoryPath  string
	DryRun          bool
	IgnoreChangelog bool
	RemoteName      string
	TrunkBranch     string
	ManifestPath    string
	ChangelogPath   string
	PrecommitScript string
}

// ServiceDependencies enumerates the collaborators required by Service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	Repository        GitRepository
	PackageManager    PackageManager
	VersionCalculator VersionCalculator
	Documents         DocumentReader
	Prompter          Prompter
	Reporter          Reporter
}

// Service runs the release workflow.
type Service struct {
	logger            *zap.Logger
	repository        GitRepository
	packageManager    PackageManager
	versionCalculator VersionCalculator
	documents         DocumentReader
	prompter          Prompter
	reporter          Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	switch {
	case dependencies.Repository == nil:
		return nil, ErrRepositoryNotConfigured
	case dependencies.PackageManager == nil:
		return nil, ErrPackageManagerNotConfigured
	case dependencies.VersionCalculator == nil:
		return nil, ErrVersionCalculatorNotConfigured
	case dependencies.Documents == nil:
		return nil, ErrDocumentsNotConfigured
	case dependencies.Prompter == nil:
		return nil, ErrPrompterNotConfigured
	case dependencies.Reporter == nil:
		return nil, ErrReporterNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:            logger,
		repository:        dependencies.Repository,
		packageManager:    dependencies.PackageManager,
		versionCalculator: dependencies.VersionCalculator,
		documents:         dependencies.Documents,
		prompter:          dependencies.Prompter,
		reporter:          dependencies.Reporter,
	}, nil
}

// releaseState carries values discovered by earlier steps to later ones.
type releaseState struct {
	options     Options
	branchName  string
	version     string
	tagName     string
	nextVersion string
	nextBranch  string
}

type workflowStep struct {
	name string
	run  func(executionContext context.Context, state *releaseState) error
}

// Run executes the workflow, stopping at the first failing step.
func (service *Service) Run(executionContext context.Context, options Options) error {
	state := &releaseState{options: options}

	for _, step := range service.steps() {
		service.logger.Debug(stepStartedLogMessageConstant,
			zap.String(logFieldStepConstant, step.name),
			zap.Bool(logFieldDryRunConstant, options.DryRun),
			zap.String(logFieldBranchConstant, state.branchName),
		)
		if stepError := step.run(executionContext, state); stepError != nil {
			service.logger.Debug(stepFailedLogMessageConstant, zap.String(logFieldStepConstant, step.name), zap.Error(stepError))
			return stepError
		}
	}
	return nil
}

func (service *Service) steps() []workflowStep {
	return []workflowStep{
		{name: "validate_branch", run: service.validateBranch},
		{name: "check_tag", run: service.checkTagAbsent},
		{name: "check_clean", run: service.checkClean},
		{name: "check_pushed", run: service.checkPushed},
		{name: "confirm_release", run: service.confirmRelease},
		{name: "sync_branch", run: service.syncBranch},
		{name: "check_manifest", run: service.checkManifest},
		{name: "check_changelog", run: service.checkChangelog},
		{name: "verify_precommit", run: service.verifyPrecommit},
		{name: "merge_trunk", run: service.mergeIntoTrunk},
		{name: "publish", run: service.publish},
		{name: "provision_next_branch", run: service.provisionNextBranch},
	}
}

func (state *releaseState) projectPath(relativePath string) string {
	if filepath.IsAbs(relativePath) || len(state.options.RepositoryPath) == 0 {
		return relativePath
	}
	return filepath.Join(state.options.RepositoryPath, relativePath)
}
