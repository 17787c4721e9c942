package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericStatusTemplateConstant           = "%s exited with status %d"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitBranchSubcommandNameConstant     = "branch"
	gitShowCurrentFlagConstant          = "--show-current"
	gitRevParseSubcommandNameConstant   = "rev-parse"
	gitVerifyFlagConstant               = "--verify"
	gitDiffIndexSubcommandNameConstant  = "diff-index"
	gitRevListSubcommandNameConstant    = "rev-list"
	gitPullSubcommandNameConstant       = "pull"
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitCreateBranchFlagConstant         = "-b"
	gitMergeSubcommandNameConstant      = "merge"
	gitPushSubcommandNameConstant       = "push"
	gitTagSubcommandNameConstant        = "tag"
	gitCommitSubcommandNameConstant     = "commit"
	gitMessageFlagConstant              = "-m"
	gitShowBranchSubcommandNameConstant = "show-branch"
	gitOptionPrefixConstant             = "-"
)

const (
	gitCurrentBranchStartTemplateConstant   = "Identifying current branch%s"
	gitCurrentBranchSuccessTemplateConstant = "Current branch is %s%s"
	gitCurrentBranchFailureTemplateConstant = "Failed to identify current branch%s (exit code %d%s)"
	gitVerifyStartTemplateConstant          = "Looking up %s%s"
	gitVerifySuccessTemplateConstant        = "Found %s%s"
	gitVerifyFailureTemplateConstant        = "Could not find %s%s (exit code %d%s)"
	gitDiffIndexStartTemplateConstant       = "Comparing tracked files with HEAD%s"
	gitDiffIndexSuccessTemplateConstant     = "Tracked files match HEAD%s"
	gitDiffIndexFailureTemplateConstant     = "Tracked files differ from HEAD%s (exit code %d%s)"
	gitRevListStartTemplateConstant         = "Counting commits in %s%s"
	gitRevListSuccessTemplateConstant       = "Counted commits in %s%s"
	gitRevListFailureTemplateConstant       = "Failed to count commits in %s%s (exit code %d%s)"
	gitPullStartTemplateConstant            = "Pulling %s from %s%s"
	gitPullSuccessTemplateConstant          = "Pulled %s from %s%s"
	gitPullFailureTemplateConstant          = "Failed to pull %s from %s%s (exit code %d%s)"
	gitCheckoutStartTemplateConstant        = "Switching to branch %s%s"
	gitCheckoutCreateStartTemplateConstant  = "Creating branch %s%s"
	gitCheckoutSuccessTemplateConstant      = "Now on branch %s%s"
	gitCheckoutFailureTemplateConstant      = "Failed to switch to branch %s%s (exit code %d%s)"
	gitMergeStartTemplateConstant           = "Merging %s%s"
	gitMergeSuccessTemplateConstant         = "Merged %s%s"
	gitMergeFailureTemplateConstant         = "Failed to merge %s%s (exit code %d%s)"
	gitPushStartTemplateConstant            = "Pushing %s to %s%s"
	gitPushSuccessTemplateConstant          = "Pushed %s to %s%s"
	gitPushFailureTemplateConstant          = "Failed to push %s to %s%s (exit code %d%s)"
	gitTagStartTemplateConstant             = "Creating tag %s%s"
	gitTagSuccessTemplateConstant           = "Created tag %s%s"
	gitTagFailureTemplateConstant           = "Failed to create tag %s%s (exit code %d%s)"
	gitCommitStartTemplateConstant          = "Creating commit with message %q%s"
	gitCommitSuccessTemplateConstant        = "Created commit with message %q%s"
	gitCommitFailureTemplateConstant        = "Failed to create commit with message %q%s (exit code %d%s)"
	gitShowBranchStartTemplateConstant      = "Checking for branch %s%s"
	gitShowBranchSuccessTemplateConstant    = "Branch %s exists%s"
	gitShowBranchFailureTemplateConstant    = "Branch %s not found%s (exit code %d%s)"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildCompletionMessage formats the message for a finished command, choosing success or failure wording.
// Commands whose status is a result report the status without failure wording.
func (formatter CommandMessageFormatter) BuildCompletionMessage(command ShellCommand, result ExecutionResult) string {
	if result.Succeeded() {
		return formatter.buildMessage(command, result, nil, messageStageSuccess)
	}
	if command.Details.StatusIsResult {
		return fmt.Sprintf(genericStatusTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	}
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if stage == messageStageExecutionFailure || command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	suffix := formatter.describeWorkingDirectory(command)
	errorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	switch strings.TrimSpace(arguments[0]) {
	case gitBranchSubcommandNameConstant:
		if !containsArgument(arguments, gitShowCurrentFlagConstant) {
			break
		}
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitCurrentBranchStartTemplateConstant, suffix),
			fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)), suffix),
			fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, suffix, result.ExitCode, errorSuffix))
	case gitRevParseSubcommandNameConstant:
		if !containsArgument(arguments, gitVerifyFlagConstant) {
			break
		}
		reference := formatter.ensureValue(lastArgument(arguments))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitVerifyStartTemplateConstant, reference, suffix),
			fmt.Sprintf(gitVerifySuccessTemplateConstant, reference, suffix),
			fmt.Sprintf(gitVerifyFailureTemplateConstant, reference, suffix, result.ExitCode, errorSuffix))
	case gitDiffIndexSubcommandNameConstant:
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitDiffIndexStartTemplateConstant, suffix),
			fmt.Sprintf(gitDiffIndexSuccessTemplateConstant, suffix),
			fmt.Sprintf(gitDiffIndexFailureTemplateConstant, suffix, result.ExitCode, errorSuffix))
	case gitRevListSubcommandNameConstant:
		revisionRange := formatter.ensureValue(lastArgument(arguments))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitRevListStartTemplateConstant, revisionRange, suffix),
			fmt.Sprintf(gitRevListSuccessTemplateConstant, revisionRange, suffix),
			fmt.Sprintf(gitRevListFailureTemplateConstant, revisionRange, suffix, result.ExitCode, errorSuffix))
	case gitPullSubcommandNameConstant:
		positional := positionalArguments(arguments[1:])
		remote := formatter.ensureValue(argumentAtIndex(positional, 0))
		branch := formatter.ensureValue(argumentAtIndex(positional, 1))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitPullStartTemplateConstant, branch, remote, suffix),
			fmt.Sprintf(gitPullSuccessTemplateConstant, branch, remote, suffix),
			fmt.Sprintf(gitPullFailureTemplateConstant, branch, remote, suffix, result.ExitCode, errorSuffix))
	case gitCheckoutSubcommandNameConstant:
		branch := formatter.ensureValue(lastArgument(arguments))
		startTemplate := gitCheckoutStartTemplateConstant
		if containsArgument(arguments, gitCreateBranchFlagConstant) {
			startTemplate = gitCheckoutCreateStartTemplateConstant
		}
		return formatter.selectTemplate(stage,
			fmt.Sprintf(startTemplate, branch, suffix),
			fmt.Sprintf(gitCheckoutSuccessTemplateConstant, branch, suffix),
			fmt.Sprintf(gitCheckoutFailureTemplateConstant, branch, suffix, result.ExitCode, errorSuffix))
	case gitMergeSubcommandNameConstant:
		branch := formatter.ensureValue(lastArgument(arguments))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitMergeStartTemplateConstant, branch, suffix),
			fmt.Sprintf(gitMergeSuccessTemplateConstant, branch, suffix),
			fmt.Sprintf(gitMergeFailureTemplateConstant, branch, suffix, result.ExitCode, errorSuffix))
	case gitPushSubcommandNameConstant:
		positional := positionalArguments(arguments[1:])
		remote := formatter.ensureValue(argumentAtIndex(positional, 0))
		reference := formatter.ensureValue(argumentAtIndex(positional, 1))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitPushStartTemplateConstant, reference, remote, suffix),
			fmt.Sprintf(gitPushSuccessTemplateConstant, reference, remote, suffix),
			fmt.Sprintf(gitPushFailureTemplateConstant, reference, remote, suffix, result.ExitCode, errorSuffix))
	case gitTagSubcommandNameConstant:
		tag := formatter.ensureValue(lastArgument(arguments))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitTagStartTemplateConstant, tag, suffix),
			fmt.Sprintf(gitTagSuccessTemplateConstant, tag, suffix),
			fmt.Sprintf(gitTagFailureTemplateConstant, tag, suffix, result.ExitCode, errorSuffix))
	case gitCommitSubcommandNameConstant:
		message := findFlagValue(arguments, gitMessageFlagConstant)
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitCommitStartTemplateConstant, message, suffix),
			fmt.Sprintf(gitCommitSuccessTemplateConstant, message, suffix),
			fmt.Sprintf(gitCommitFailureTemplateConstant, message, suffix, result.ExitCode, errorSuffix))
	case gitShowBranchSubcommandNameConstant:
		branch := formatter.ensureValue(lastArgument(arguments))
		return formatter.selectTemplate(stage,
			fmt.Sprintf(gitShowBranchStartTemplateConstant, branch, suffix),
			fmt.Sprintf(gitShowBranchSuccessTemplateConstant, branch, suffix),
			fmt.Sprintf(gitShowBranchFailureTemplateConstant, branch, suffix, result.ExitCode, errorSuffix))
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) selectTemplate(stage messageStage, started string, succeeded string, failed string) string {
	switch stage {
	case messageStageStart:
		return started
	case messageStageSuccess:
		return succeeded
	default:
		return failed
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	label := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, label)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, label)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, label, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, label, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant) + formatter.describeWorkingDirectory(command)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func containsArgument(arguments []string, target string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == target {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}

func lastArgument(arguments []string) string {
	if len(arguments) == 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[len(arguments)-1])
}

func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if strings.HasPrefix(argument, gitOptionPrefixConstant) {
			continue
		}
		positional = append(positional, argument)
	}
	return positional
}

func argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}
