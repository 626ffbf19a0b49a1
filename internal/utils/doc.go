// Package utils exposes reusable helpers consumed by the gitopolis commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, plus the CommandContextAccessor
// that carries resolved settings from the root command to its subcommands.
package utils
