package audit

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/dependencies"
	"github.com/temirov/pkgchores/internal/execshell"
	"github.com/temirov/pkgchores/internal/exitcodes"
	"github.com/temirov/pkgchores/internal/toolchain"
	"github.com/temirov/pkgchores/internal/ui"
	"github.com/temirov/pkgchores/internal/utils/flags"
)

const (
	commandUseConstant                   = "audit"
	commandShortDescriptionConstant      = "Run the dependency audit with a minimum failing severity"
	commandLongDescriptionConstant       = "audit runs the package manager's dependency audit with the console attached and passes unless findings reach the --minimum severity."
	unexpectedArgumentsMessageConstant   = "audit does not accept positional arguments"
	invalidConfigurationTemplateConstant = "invalid audit configuration: %w"
	flagLevelNameConstant                = "level"
	flagLevelShorthandConstant           = "l"
	flagLevelUsageConstant               = "Only show findings at or above this severity"
	flagJSONNameConstant                 = "json"
	flagJSONShorthandConstant            = "j"
	flagJSONUsageConstant                = "Emit machine-readable audit output"
	flagMinimumNameConstant              = "minimum"
	flagMinimumShorthandConstant         = "m"
	flagMinimumUsageConstant             = "Lowest severity that fails the audit"
	currentDirectoryConstant             = "."
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              dependencies.CommandExecutor
	Reporter              *ui.Reporter
	CommandEventsObserver execshell.CommandEventObserver
	WorkingDirectory      string
}

// Build constructs the audit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	var level string
	var minimum string
	flags.AddChoiceFlag(command.Flags(), &level, flagLevelNameConstant, flagLevelShorthandConstant, "", SeverityChoices(), flagLevelUsageConstant)
	command.Flags().BoolP(flagJSONNameConstant, flagJSONShorthandConstant, false, flagJSONUsageConstant)
	flags.AddChoiceFlag(command.Flags(), &minimum, flagMinimumNameConstant, flagMinimumShorthandConstant, "", SeverityChoices(), flagMinimumUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration()
	options, optionsError := builder.parseOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}
	packageManager, packageManagerError := toolchain.NewPackageManager(executor, configuration.PackageManager)
	if packageManagerError != nil {
		return packageManagerError
	}

	reporter := dependencies.ResolveReporter(builder.Reporter, command.OutOrStdout(), command.ErrOrStderr())
	service, serviceError := NewService(logger, packageManager, reporter)
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context(), options)
	if runError != nil {
		return runError
	}
	if result.ExitStatus != exitcodes.ExitSuccess {
		return exitcodes.NewSilentStatusError(result.ExitStatus)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) (Options, error) {
	levelValue := configuration.Level
	if command.Flags().Changed(flagLevelNameConstant) {
		levelValue = command.Flags().Lookup(flagLevelNameConstant).Value.String()
	}
	minimumValue := configuration.Minimum
	if command.Flags().Changed(flagMinimumNameConstant) {
		minimumValue = command.Flags().Lookup(flagMinimumNameConstant).Value.String()
	}

	level, levelError := ParseSeverity(levelValue)
	if levelError != nil {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, levelError)
	}
	minimum, minimumError := ParseSeverity(minimumValue)
	if minimumError != nil {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, minimumError)
	}
	jsonOutput, _ := command.Flags().GetBool(flagJSONNameConstant)

	projectPath := builder.WorkingDirectory
	if len(projectPath) == 0 {
		projectPath = currentDirectoryConstant
	}

	return Options{ProjectPath: projectPath, Level: level, JSON: jsonOutput, Minimum: minimum}, nil
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
