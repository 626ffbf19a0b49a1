package repos

import (
	"strings"

	"github.com/rsenna/gitopolis/internal/format"
	"github.com/rsenna/gitopolis/internal/state"
)

const (
	stateConfigurationKeyConstant          = "state"
	outputConfigurationKeyConstant         = "output"
	discoveryConfigurationKeyConstant      = "discovery"
	configurationFileKeyConstant           = "file"
	configurationFormatKeyConstant         = "format"
	configurationExcludeKeyConstant        = "exclude"
	configurationKeySeparatorConstant      = "."
	defaultExcludedNodeModulesConstant     = "node_modules"
	defaultExcludedVendorDirectoryConstant = "vendor"
)

// CommandConfiguration captures the settings shared by every registry command.
type CommandConfiguration struct {
	State     StateConfiguration     `mapstructure:"state"`
	Output    OutputConfiguration    `mapstructure:"output"`
	Discovery DiscoveryConfiguration `mapstructure:"discovery"`
}

// StateConfiguration locates the state document.
type StateConfiguration struct {
	File string `mapstructure:"file"`
}

// OutputConfiguration selects the default rendering of read-only commands.
type OutputConfiguration struct {
	Format string `mapstructure:"format"`
}

// DiscoveryConfiguration tunes `add --recursive`.
type DiscoveryConfiguration struct {
	Exclude []string `mapstructure:"exclude"`
}

// DefaultCommandConfiguration returns baseline configuration values for registry commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		State:     StateConfiguration{File: state.DefaultStateFileNameConstant},
		Output:    OutputConfiguration{Format: string(format.Text)},
		Discovery: DiscoveryConfiguration{Exclude: []string{defaultExcludedNodeModulesConstant, defaultExcludedVendorDirectoryConstant}},
	}
}

// DefaultConfigurationValues produces Viper defaults for registry commands.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey(stateConfigurationKeyConstant, configurationFileKeyConstant):        defaults.State.File,
		configurationKey(outputConfigurationKeyConstant, configurationFormatKeyConstant):     defaults.Output.Format,
		configurationKey(discoveryConfigurationKeyConstant, configurationExcludeKeyConstant): defaults.Discovery.Exclude,
	}
}

func configurationKey(segments ...string) string {
	return strings.Join(segments, configurationKeySeparatorConstant)
}

// sanitize fills blank values with defaults and expands home prefixes in the state file location.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.State.File = strings.TrimSpace(configuration.State.File)
	if len(sanitized.State.File) == 0 {
		sanitized.State.File = defaults.State.File
	}
	sanitized.State.File = homeDirectoryExpander.Expand(sanitized.State.File)

	sanitized.Output.Format = strings.TrimSpace(configuration.Output.Format)
	if len(sanitized.Output.Format) == 0 {
		sanitized.Output.Format = defaults.Output.Format
	}

	exclusions := make([]string, 0, len(configuration.Discovery.Exclude))
	for _, directoryName := range configuration.Discovery.Exclude {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) > 0 {
			exclusions = append(exclusions, trimmedName)
		}
	}
	sanitized.Discovery.Exclude = exclusions
	return sanitized
}
