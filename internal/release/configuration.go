package release

import "strings"

const (
	defaultRemoteNameConstant      = "origin"
	defaultTrunkBranchConstant     = "master"
	defaultManifestPathConstant    = "package.json"
	defaultChangelogPathConstant   = "CHANGELOG.md"
	defaultPackageManagerConstant  = "yarn"
	defaultPrecommitScriptConstant = "precommit"
	defaultSemverCommandConstant   = "semver"
)

// CommandConfiguration captures persistent settings for the release command.
type CommandConfiguration struct {
	RemoteName      string `mapstructure:"remote"`
	TrunkBranch     string `mapstructure:"trunk_branch"`
	ManifestPath    string `mapstructure:"manifest"`
	ChangelogPath   string `mapstructure:"changelog"`
	PackageManager  string `mapstructure:"package_manager"`
	PrecommitScript string `mapstructure:"precommit_script"`
	SemverCommand   string `mapstructure:"semver_command"`
}

// DefaultCommandConfiguration returns baseline configuration values for the release command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:      defaultRemoteNameConstant,
		TrunkBranch:     defaultTrunkBranchConstant,
		ManifestPath:    defaultManifestPathConstant,
		ChangelogPath:   defaultChangelogPathConstant,
		PackageManager:  defaultPackageManagerConstant,
		PrecommitScript: defaultPrecommitScriptConstant,
		SemverCommand:   defaultSemverCommandConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".remote":           defaults.RemoteName,
		prefix + ".trunk_branch":     defaults.TrunkBranch,
		prefix + ".manifest":         defaults.ManifestPath,
		prefix + ".changelog":        defaults.ChangelogPath,
		prefix + ".package_manager":  defaults.PackageManager,
		prefix + ".precommit_script": defaults.PrecommitScript,
		prefix + ".semver_command":   defaults.SemverCommand,
	}
}

// sanitize trims values and restores defaults for blanks.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	return CommandConfiguration{
		RemoteName:      valueOrDefault(configuration.RemoteName, defaults.RemoteName),
		TrunkBranch:     valueOrDefault(configuration.TrunkBranch, defaults.TrunkBranch),
		ManifestPath:    valueOrDefault(configuration.ManifestPath, defaults.ManifestPath),
		ChangelogPath:   valueOrDefault(configuration.ChangelogPath, defaults.ChangelogPath),
		PackageManager:  valueOrDefault(configuration.PackageManager, defaults.PackageManager),
		PrecommitScript: valueOrDefault(configuration.PrecommitScript, defaults.PrecommitScript),
		SemverCommand:   valueOrDefault(configuration.SemverCommand, defaults.SemverCommand),
	}
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
