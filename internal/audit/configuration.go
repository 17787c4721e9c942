package audit

import "strings"

const defaultPackageManagerConstant = "yarn"

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	PackageManager string `mapstructure:"package_manager"`
	Level          string `mapstructure:"level"`
	Minimum        string `mapstructure:"minimum"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{PackageManager: defaultPackageManagerConstant}
}

// DefaultConfigurationValues exposes the defaults as viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".package_manager": defaults.PackageManager,
		prefix + ".level":           defaults.Level,
		prefix + ".minimum":         defaults.Minimum,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		PackageManager: strings.TrimSpace(configuration.PackageManager),
		Level:          strings.TrimSpace(configuration.Level),
		Minimum:        strings.TrimSpace(configuration.Minimum),
	}
	if len(sanitized.PackageManager) == 0 {
		sanitized.PackageManager = defaultPackageManagerConstant
	}
	return sanitized
}
