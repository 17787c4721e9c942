package distribution

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	fileSystemNotConfiguredMessageConstant = "distribution file system not configured"
	outputDirectoryMissingMessageConstant  = "distribution output directory not provided"
	createDirectoryTemplateConstant        = "failed to create directory %s: %w"
	readFileTemplateConstant               = "failed to read %s: %w"
	copyFileTemplateConstant               = "failed to copy %s to %s: %w"
	inspectPathTemplateConstant            = "failed to inspect %s: %w"
	walkDirectoryTemplateConstant          = "failed to walk %s: %w"
	distributionPrefixConstant             = "dist/"
	configDirectoryNameConstant            = "config"
	binDirectoryNameConstant               = "bin"
	shellScriptExtensionConstant           = ".sh"
	copiedFileLogMessageConstant           = "copied distribution file"
	skippedFileLogMessageConstant          = "skipped missing distribution file"
	logFieldSourceConstant                 = "source"
	logFieldDestinationConstant            = "destination"
	defaultDirectoryPermissionsConstant    = fs.FileMode(0o755)
)

// ErrFileSystemNotConfigured indicates a nil file system was supplied.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// ErrOutputDirectoryMissing indicates that no output directory was supplied.
var ErrOutputDirectoryMissing = errors.New(outputDirectoryMissingMessageConstant)

// AuxiliaryFiles lists the files copied into every distribution when present.
func AuxiliaryFiles() []string {
	return []string{"CHANGELOG.md", "LICENSE", "README.md", ".npmignore"}
}

// Options describes one assembly run. Relative paths resolve against ProjectPath.
type Options struct {
	ProjectPath     string
	OutputDirectory string
	SourceDirectory string
	ManifestPath    string
	ExtraFiles      []string
}

// Summary lists the destination paths written during an assembly run.
type Summary struct {
	CopiedFiles []string
}

// Assembler copies distribution files between directories of a file system.
type Assembler struct {
	fileSystem afero.Fs
	logger     *zap.Logger
}

// NewAssembler constructs an Assembler over the file system.
func NewAssembler(fileSystem afero.Fs, logger *zap.Logger) (*Assembler, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{fileSystem: fileSystem, logger: logger}, nil
}

// Assemble populates the output directory. Absent auxiliary files, config trees and bin scripts are skipped.
func (assembler *Assembler) Assemble(options Options) (Summary, error) {
	if len(strings.TrimSpace(options.OutputDirectory)) == 0 {
		return Summary{}, ErrOutputDirectoryMissing
	}

	outputDirectory := resolvePath(options.ProjectPath, options.OutputDirectory)
	if mkdirError := assembler.fileSystem.MkdirAll(outputDirectory, defaultDirectoryPermissionsConstant); mkdirError != nil {
		return Summary{}, fmt.Errorf(createDirectoryTemplateConstant, outputDirectory, mkdirError)
	}

	summary := Summary{}

	if len(strings.TrimSpace(options.ManifestPath)) > 0 {
		manifestSource := resolvePath(options.ProjectPath, options.ManifestPath)
		manifestDestination := filepath.Join(outputDirectory, filepath.Base(options.ManifestPath))
		if manifestError := assembler.copyManifest(manifestSource, manifestDestination); manifestError != nil {
			return summary, manifestError
		}
		summary.CopiedFiles = append(summary.CopiedFiles, manifestDestination)
	}

	for _, relativePath := range append(AuxiliaryFiles(), options.ExtraFiles...) {
		trimmedPath := strings.TrimSpace(relativePath)
		if len(trimmedPath) == 0 {
			continue
		}
		source := resolvePath(options.ProjectPath, trimmedPath)
		destination := filepath.Join(outputDirectory, trimmedPath)
		copied, copyError := assembler.copyIfPresent(source, destination)
		if copyError != nil {
			return summary, copyError
		}
		if copied {
			summary.CopiedFiles = append(summary.CopiedFiles, destination)
		}
	}

	sourceDirectory := resolvePath(options.ProjectPath, options.SourceDirectory)

	configFiles, configError := assembler.mirrorDirectory(filepath.Join(sourceDirectory, configDirectoryNameConstant), filepath.Join(outputDirectory, configDirectoryNameConstant))
	summary.CopiedFiles = append(summary.CopiedFiles, configFiles...)
	if configError != nil {
		return summary, configError
	}

	scriptFiles, scriptError := assembler.copyScripts(filepath.Join(sourceDirectory, binDirectoryNameConstant), filepath.Join(outputDirectory, binDirectoryNameConstant))
	summary.CopiedFiles = append(summary.CopiedFiles, scriptFiles...)
	if scriptError != nil {
		return summary, scriptError
	}

	return summary, nil
}

func (assembler *Assembler) copyManifest(source string, destination string) error {
	info, statError := assembler.fileSystem.Stat(source)
	if statError != nil {
		return fmt.Errorf(readFileTemplateConstant, source, statError)
	}
	contents, readError := afero.ReadFile(assembler.fileSystem, source)
	if readError != nil {
		return fmt.Errorf(readFileTemplateConstant, source, readError)
	}
	rewritten := strings.ReplaceAll(string(contents), distributionPrefixConstant, "")
	if writeError := assembler.writeFile(destination, strings.NewReader(rewritten), info); writeError != nil {
		return fmt.Errorf(copyFileTemplateConstant, source, destination, writeError)
	}
	assembler.logger.Debug(copiedFileLogMessageConstant, zap.String(logFieldSourceConstant, source), zap.String(logFieldDestinationConstant, destination))
	return nil
}

func (assembler *Assembler) copyIfPresent(source string, destination string) (bool, error) {
	info, statError := assembler.fileSystem.Stat(source)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			assembler.logger.Debug(skippedFileLogMessageConstant, zap.String(logFieldSourceConstant, source))
			return false, nil
		}
		return false, fmt.Errorf(inspectPathTemplateConstant, source, statError)
	}
	if info.IsDir() {
		_, mirrorError := assembler.mirrorDirectory(source, destination)
		return true, mirrorError
	}
	return true, assembler.copyFile(source, destination, info)
}

// mirrorDirectory copies the tree under source into destination when source is a directory.
func (assembler *Assembler) mirrorDirectory(source string, destination string) ([]string, error) {
	isDirectory, inspectError := assembler.isDirectory(source)
	if inspectError != nil || !isDirectory {
		return nil, inspectError
	}

	var copiedFiles []string
	walkError := afero.Walk(assembler.fileSystem, source, func(currentPath string, info fs.FileInfo, visitError error) error {
		if visitError != nil {
			return visitError
		}
		relativePath, relativeError := filepath.Rel(source, currentPath)
		if relativeError != nil {
			return relativeError
		}
		target := filepath.Join(destination, relativePath)
		if info.IsDir() {
			return assembler.fileSystem.MkdirAll(target, info.Mode().Perm())
		}
		if copyError := assembler.copyFile(currentPath, target, info); copyError != nil {
			return copyError
		}
		copiedFiles = append(copiedFiles, target)
		return nil
	})
	if walkError != nil {
		return copiedFiles, fmt.Errorf(walkDirectoryTemplateConstant, source, walkError)
	}
	return copiedFiles, nil
}

// copyScripts flattens every *.sh file under source into destination without the extension.
func (assembler *Assembler) copyScripts(source string, destination string) ([]string, error) {
	isDirectory, inspectError := assembler.isDirectory(source)
	if inspectError != nil || !isDirectory {
		return nil, inspectError
	}

	var copiedFiles []string
	walkError := afero.Walk(assembler.fileSystem, source, func(currentPath string, info fs.FileInfo, visitError error) error {
		if visitError != nil {
			return visitError
		}
		if info.IsDir() || filepath.Ext(currentPath) != shellScriptExtensionConstant {
			return nil
		}
		target := filepath.Join(destination, strings.TrimSuffix(filepath.Base(currentPath), shellScriptExtensionConstant))
		if copyError := assembler.copyFile(currentPath, target, info); copyError != nil {
			return copyError
		}
		copiedFiles = append(copiedFiles, target)
		return nil
	})
	if walkError != nil {
		return copiedFiles, fmt.Errorf(walkDirectoryTemplateConstant, source, walkError)
	}
	return copiedFiles, nil
}

func (assembler *Assembler) copyFile(source string, destination string, info fs.FileInfo) error {
	sourceFile, openError := assembler.fileSystem.Open(source)
	if openError != nil {
		return fmt.Errorf(readFileTemplateConstant, source, openError)
	}
	defer sourceFile.Close()

	if writeError := assembler.writeFile(destination, sourceFile, info); writeError != nil {
		return fmt.Errorf(copyFileTemplateConstant, source, destination, writeError)
	}
	assembler.logger.Debug(copiedFileLogMessageConstant, zap.String(logFieldSourceConstant, source), zap.String(logFieldDestinationConstant, destination))
	return nil
}

// writeFile replaces destination with contents and carries over the permissions and modification time of info.
func (assembler *Assembler) writeFile(destination string, contents io.Reader, info fs.FileInfo) error {
	if mkdirError := assembler.fileSystem.MkdirAll(filepath.Dir(destination), defaultDirectoryPermissionsConstant); mkdirError != nil {
		return mkdirError
	}

	destinationFile, createError := assembler.fileSystem.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if createError != nil {
		return createError
	}
	if _, copyError := io.Copy(destinationFile, contents); copyError != nil {
		destinationFile.Close()
		return copyError
	}
	if closeError := destinationFile.Close(); closeError != nil {
		return closeError
	}

	if chmodError := assembler.fileSystem.Chmod(destination, info.Mode().Perm()); chmodError != nil {
		return chmodError
	}
	return assembler.fileSystem.Chtimes(destination, info.ModTime(), info.ModTime())
}

func (assembler *Assembler) isDirectory(candidate string) (bool, error) {
	info, statError := assembler.fileSystem.Stat(candidate)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(inspectPathTemplateConstant, candidate, statError)
	}
	return info.IsDir(), nil
}

func resolvePath(basePath string, candidate string) string {
	if filepath.IsAbs(candidate) || len(basePath) == 0 {
		return filepath.Clean(candidate)
	}
	return filepath.Join(basePath, candidate)
}
