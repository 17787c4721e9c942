// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration
// files and PKGCHORES_* environment overrides through Viper, and LoggerFactory,
// which builds zap loggers for the CLI.
package utils
