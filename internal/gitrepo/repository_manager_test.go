package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pkgchores/internal/execshell"
	"github.com/temirov/pkgchores/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/tmp/project"
	testRemoteNameConstant     = "origin"
	testBranchNameConstant     = "release/v1.2.3"
)

type scriptedGitExecutor struct {
	results          map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	key := strings.Join(details.Arguments, " ")
	if failure, exists := executor.failures[key]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return executor.results[key], nil
}

func newScriptedManager(testInstance *testing.T, results map[string]execshell.ExecutionResult) (*gitrepo.RepositoryManager, *scriptedGitExecutor) {
	testInstance.Helper()
	executor := &scriptedGitExecutor{results: results, failures: map[string]error{}}
	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)
	return manager, executor
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, managerError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, manager)
	require.ErrorIs(testInstance, managerError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestRepositoryManagerCurrentBranch(testInstance *testing.T) {
	manager, executor := newScriptedManager(testInstance, map[string]execshell.ExecutionResult{
		"branch --show-current": {StandardOutput: testBranchNameConstant + "\n"},
	})

	branchName, branchError := manager.CurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testBranchNameConstant, branchName)
	require.Equal(testInstance, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
}

func TestRepositoryManagerQueries(testInstance *testing.T) {
	testCases := []struct {
		name          string
		key           string
		result        execshell.ExecutionResult
		query         func(manager *gitrepo.RepositoryManager) (bool, error)
		expectedState bool
	}{
		{
			name:          "tag_exists",
			key:           "rev-parse -q --verify refs/tags/v1.2.3",
			result:        execshell.ExecutionResult{ExitCode: 0},
			query:         func(manager *gitrepo.RepositoryManager) (bool, error) { return manager.TagExists(context.Background(), testRepositoryPathConstant, "v1.2.3") },
			expectedState: true,
		},
		{
			name:          "tag_missing",
			key:           "rev-parse -q --verify refs/tags/v1.2.3",
			result:        execshell.ExecutionResult{ExitCode: 1},
			query:         func(manager *gitrepo.RepositoryManager) (bool, error) { return manager.TagExists(context.Background(), testRepositoryPathConstant, "v1.2.3") },
			expectedState: false,
		},
		{
			name:   "local_branch_missing",
			key:    "show-branch release/v1.3.0",
			result: execshell.ExecutionResult{ExitCode: 128},
			query: func(manager *gitrepo.RepositoryManager) (bool, error) {
				return manager.LocalBranchExists(context.Background(), testRepositoryPathConstant, "release/v1.3.0")
			},
			expectedState: false,
		},
		{
			name:   "remote_branch_exists",
			key:    "show-branch remotes/origin/release/v1.3.0",
			result: execshell.ExecutionResult{ExitCode: 0},
			query: func(manager *gitrepo.RepositoryManager) (bool, error) {
				return manager.RemoteBranchExists(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, "release/v1.3.0")
			},
			expectedState: true,
		},
		{
			name:          "clean_worktree",
			key:           "diff-index --quiet HEAD --",
			result:        execshell.ExecutionResult{ExitCode: 0},
			query:         func(manager *gitrepo.RepositoryManager) (bool, error) { return manager.IsClean(context.Background(), testRepositoryPathConstant) },
			expectedState: true,
		},
		{
			name:          "dirty_worktree",
			key:           "diff-index --quiet HEAD --",
			result:        execshell.ExecutionResult{ExitCode: 1},
			query:         func(manager *gitrepo.RepositoryManager) (bool, error) { return manager.IsClean(context.Background(), testRepositoryPathConstant) },
			expectedState: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manager, executor := newScriptedManager(testInstance, map[string]execshell.ExecutionResult{testCase.key: testCase.result})

			state, queryError := testCase.query(manager)
			require.NoError(testInstance, queryError)
			require.Equal(testInstance, testCase.expectedState, state)
			require.Len(testInstance, executor.recordedCommands, 1)
			require.Equal(testInstance, execshell.StreamModeSilent, executor.recordedCommands[0].StreamMode)
		})
	}
}

func TestRepositoryManagerIsCleanReportsGitErrors(testInstance *testing.T) {
	manager, _ := newScriptedManager(testInstance, map[string]execshell.ExecutionResult{
		"diff-index --quiet HEAD --": {ExitCode: 128},
	})

	_, cleanError := manager.IsClean(context.Background(), testRepositoryPathConstant)
	var failure execshell.CommandFailedError
	require.ErrorAs(testInstance, cleanError, &failure)
	require.Equal(testInstance, 128, failure.ExitCode())
}

func TestRepositoryManagerCountUnpushedCommits(testInstance *testing.T) {
	manager, _ := newScriptedManager(testInstance, map[string]execshell.ExecutionResult{
		"rev-list --count origin/release/v1.2.3..release/v1.2.3": {StandardOutput: "2\n"},
	})

	count, countError := manager.CountUnpushedCommits(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant)
	require.NoError(testInstance, countError)
	require.Equal(testInstance, 2, count)
}

func TestRepositoryManagerMutationsIssueExpectedCommands(testInstance *testing.T) {
	manager, executor := newScriptedManager(testInstance, map[string]execshell.ExecutionResult{})
	executionContext := context.Background()

	require.NoError(testInstance, manager.PullRebase(executionContext, testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant))
	require.NoError(testInstance, manager.Checkout(executionContext, testRepositoryPathConstant, "master"))
	require.NoError(testInstance, manager.PullFastForward(executionContext, testRepositoryPathConstant, testRemoteNameConstant, "master"))
	require.NoError(testInstance, manager.MergeNoFastForward(executionContext, testRepositoryPathConstant, testBranchNameConstant))
	require.NoError(testInstance, manager.Push(executionContext, testRepositoryPathConstant, testRemoteNameConstant, "master"))
	require.NoError(testInstance, manager.CreateTag(executionContext, testRepositoryPathConstant, "v1.2.3"))
	require.NoError(testInstance, manager.CreateBranch(executionContext, testRepositoryPathConstant, "release/v1.3.0"))
	require.NoError(testInstance, manager.CommitFiles(executionContext, testRepositoryPathConstant, "Bump version to 1.3.0", "package.json"))
	require.NoError(testInstance, manager.PushUpstream(executionContext, testRepositoryPathConstant, testRemoteNameConstant, "release/v1.3.0"))

	recorded := make([]string, 0, len(executor.recordedCommands))
	for _, details := range executor.recordedCommands {
		recorded = append(recorded, strings.Join(details.Arguments, " "))
	}
	require.Equal(testInstance, []string{
		"pull --rebase origin release/v1.2.3",
		"checkout master",
		"pull --ff-only origin master",
		"merge --no-ff --no-edit release/v1.2.3",
		"push origin master",
		"tag v1.2.3",
		"checkout -b release/v1.3.0",
		"commit -m Bump version to 1.3.0 -- package.json",
		"push -u origin release/v1.3.0",
	}, recorded)
}

func TestRepositoryManagerMutationFailures(testInstance *testing.T) {
	launchFailure := errors.New("git not found")
	executor := &scriptedGitExecutor{
		results: map[string]execshell.ExecutionResult{
			"merge --no-ff --no-edit release/v1.2.3": {ExitCode: 1, StandardError: "CONFLICT"},
		},
		failures: map[string]error{"push origin master": launchFailure},
	}
	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	mergeError := manager.MergeNoFastForward(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
	var failure execshell.CommandFailedError
	require.ErrorAs(testInstance, mergeError, &failure)
	require.Contains(testInstance, failure.Error(), "CONFLICT")

	pushError := manager.Push(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, "master")
	require.ErrorIs(testInstance, pushError, launchFailure)
}
