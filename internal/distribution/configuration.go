package distribution

import "strings"

const (
	defaultOutputDirectoryConstant = "dist"
	defaultSourceDirectoryConstant = "src"
	defaultManifestPathConstant    = "package.json"
)

// CommandConfiguration captures persistent settings for the build-dist command.
type CommandConfiguration struct {
	OutputDirectory string   `mapstructure:"out"`
	SourceDirectory string   `mapstructure:"src"`
	Files           []string `mapstructure:"files"`
	ManifestPath    string   `mapstructure:"manifest"`
}

// DefaultCommandConfiguration returns baseline configuration values for the build-dist command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		OutputDirectory: defaultOutputDirectoryConstant,
		SourceDirectory: defaultSourceDirectoryConstant,
		Files:           []string{},
		ManifestPath:    defaultManifestPathConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".out":      defaults.OutputDirectory,
		prefix + ".src":      defaults.SourceDirectory,
		prefix + ".files":    defaults.Files,
		prefix + ".manifest": defaults.ManifestPath,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		OutputDirectory: strings.TrimSpace(configuration.OutputDirectory),
		SourceDirectory: strings.TrimSpace(configuration.SourceDirectory),
		ManifestPath:    strings.TrimSpace(configuration.ManifestPath),
		Files:           []string{},
	}
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaults.OutputDirectory
	}
	if len(sanitized.SourceDirectory) == 0 {
		sanitized.SourceDirectory = defaults.SourceDirectory
	}
	if len(sanitized.ManifestPath) == 0 {
		sanitized.ManifestPath = defaults.ManifestPath
	}
	for _, file := range configuration.Files {
		if trimmed := strings.TrimSpace(file); len(trimmed) > 0 {
			sanitized.Files = append(sanitized.Files, trimmed)
		}
	}
	return sanitized
}
