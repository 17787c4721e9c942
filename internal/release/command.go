package release

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/dependencies"
	"github.com/temirov/pkgchores/internal/execshell"
	"github.com/temirov/pkgchores/internal/gitrepo"
	"github.com/temirov/pkgchores/internal/project"
	"github.com/temirov/pkgchores/internal/toolchain"
	"github.com/temirov/pkgchores/internal/ui"
	"github.com/temirov/pkgchores/internal/utils/flags"
)

const (
	commandUseConstant                 = "release"
	commandShortDescriptionConstant    = "Merge, tag and push the current release/vX.Y.Z branch"
	commandLongDescriptionConstant     = "release verifies the current release/vX.Y.Z branch against the manifest and changelog, merges it into the trunk branch, pushes the trunk and the version tag, and optionally creates the next release branch."
	unexpectedArgumentsMessageConstant = "release does not accept positional arguments"
	flagDryRunShorthandConstant        = "d"
	flagDryRunUsageConstant            = "Run every check and prompt without pulling, merging, committing, tagging or pushing"
	flagIgnoreChangelogNameConstant    = "ignore-changelog"
	flagIgnoreChangelogUsageConstant   = "Skip the changelog heading check"
	currentDirectoryConstant           = "."
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the release configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the release cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              dependencies.CommandExecutor
	Prompter              dependencies.Prompter
	FileSystem            afero.Fs
	Reporter              *ui.Reporter
	CommandEventsObserver execshell.CommandEventObserver
	WorkingDirectory      string
}

// Build constructs the release command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.ExecutionFlagDefinitions{
		DryRun: flags.ExecutionFlagDefinition{
			Name:      flags.DryRunFlagName,
			Shorthand: flagDryRunShorthandConstant,
			Usage:     flagDryRunUsageConstant,
			Enabled:   true,
		},
	})
	command.Flags().Bool(flagIgnoreChangelogNameConstant, false, flagIgnoreChangelogUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration()
	options := builder.parseOptions(command, configuration)

	logger := builder.resolveLogger()
	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return managerError
	}
	packageManager, packageManagerError := toolchain.NewPackageManager(executor, configuration.PackageManager)
	if packageManagerError != nil {
		return packageManagerError
	}
	versionCalculator, calculatorError := toolchain.NewVersionCalculator(executor, configuration.SemverCommand)
	if calculatorError != nil {
		return calculatorError
	}
	documentReader, readerError := project.NewDocumentReader(dependencies.ResolveFileSystem(builder.FileSystem))
	if readerError != nil {
		return readerError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:            logger,
		Repository:        repositoryManager,
		PackageManager:    packageManager,
		VersionCalculator: versionCalculator,
		Documents:         documentReader,
		Prompter:          dependencies.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout()),
		Reporter:          dependencies.ResolveReporter(builder.Reporter, command.OutOrStdout(), command.ErrOrStderr()),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) Options {
	dryRun, _ := command.Flags().GetBool(flags.DryRunFlagName)
	ignoreChangelog, _ := command.Flags().GetBool(flagIgnoreChangelogNameConstant)

	repositoryPath := builder.WorkingDirectory
	if len(repositoryPath) == 0 {
		repositoryPath = currentDirectoryConstant
	}

	return Options{
		RepositoryPath:  repositoryPath,
		DryRun:          dryRun,
		IgnoreChangelog: ignoreChangelog,
		RemoteName:      configuration.RemoteName,
		TrunkBranch:     configuration.TrunkBranch,
		ManifestPath:    configuration.ManifestPath,
		ChangelogPath:   configuration.ChangelogPath,
		PrecommitScript: configuration.PrecommitScript,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	return dependencies.ResolveLogger(builder.LoggerProvider())
}
