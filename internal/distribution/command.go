package distribution

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/dependencies"
	"github.com/temirov/pkgchores/internal/ui"
)

const (
	commandUseConstant                 = "build-dist"
	commandShortDescriptionConstant    = "Copy auxiliary package files into the build output directory"
	commandLongDescriptionConstant     = "build-dist copies the manifest (with dist/ prefixes removed), the changelog, license, readme, .npmignore and any extra files into the output directory, mirrors <src>/config and installs <src>/bin/*.sh scripts without their extension."
	unexpectedArgumentsMessageConstant = "build-dist does not accept positional arguments"
	flagOutputNameConstant             = "out"
	flagOutputShorthandConstant        = "o"
	flagOutputUsageConstant            = "Output directory"
	flagFilesNameConstant              = "files"
	flagFilesShorthandConstant         = "f"
	flagFilesUsageConstant             = "Extra files to copy (comma-separated or repeated)"
	flagSourceNameConstant             = "src"
	flagSourceShorthandConstant        = "s"
	flagSourceUsageConstant            = "Source directory holding config/ and bin/"
	assembledMessageTemplateConstant   = "Copied %d file(s) into %s"
	currentDirectoryConstant           = "."
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the build-dist configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the build-dist cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            afero.Fs
	Reporter              *ui.Reporter
	WorkingDirectory      string
}

// Build constructs the build-dist command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().StringP(flagOutputNameConstant, flagOutputShorthandConstant, defaults.OutputDirectory, flagOutputUsageConstant)
	command.Flags().StringSliceP(flagFilesNameConstant, flagFilesShorthandConstant, nil, flagFilesUsageConstant)
	command.Flags().StringP(flagSourceNameConstant, flagSourceShorthandConstant, defaults.SourceDirectory, flagSourceUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options := builder.parseOptions(command, builder.resolveConfiguration())

	assembler, assemblerError := NewAssembler(dependencies.ResolveFileSystem(builder.FileSystem), builder.resolveLogger())
	if assemblerError != nil {
		return assemblerError
	}

	summary, assembleError := assembler.Assemble(options)
	if assembleError != nil {
		return assembleError
	}

	reporter := dependencies.ResolveReporter(builder.Reporter, command.OutOrStdout(), command.ErrOrStderr())
	reporter.Successf(assembledMessageTemplateConstant, len(summary.CopiedFiles), options.OutputDirectory)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) Options {
	outputDirectory := configuration.OutputDirectory
	if command.Flags().Changed(flagOutputNameConstant) {
		outputDirectory, _ = command.Flags().GetString(flagOutputNameConstant)
	}
	sourceDirectory := configuration.SourceDirectory
	if command.Flags().Changed(flagSourceNameConstant) {
		sourceDirectory, _ = command.Flags().GetString(flagSourceNameConstant)
	}
	extraFiles := configuration.Files
	if command.Flags().Changed(flagFilesNameConstant) {
		extraFiles, _ = command.Flags().GetStringSlice(flagFilesNameConstant)
	}

	projectPath := builder.WorkingDirectory
	if len(projectPath) == 0 {
		projectPath = currentDirectoryConstant
	}

	return Options{
		ProjectPath:     projectPath,
		OutputDirectory: outputDirectory,
		SourceDirectory: sourceDirectory,
		ManifestPath:    configuration.ManifestPath,
		ExtraFiles:      extraFiles,
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
