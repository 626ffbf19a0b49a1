package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	stateFilePathContextKeyConstant         = commandContextKey("stateFilePath")
	outputFormatContextKeyConstant          = commandContextKey("outputFormat")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return accessor.withString(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, configurationFilePathContextKeyConstant)
}

// WithStateFilePath attaches the resolved state file location.
func (accessor CommandContextAccessor) WithStateFilePath(parentContext context.Context, stateFilePath string) context.Context {
	return accessor.withString(parentContext, stateFilePathContextKeyConstant, stateFilePath)
}

// StateFilePath extracts the state file location.
func (accessor CommandContextAccessor) StateFilePath(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, stateFilePathContextKeyConstant)
}

// WithOutputFormat attaches the configured default output format.
func (accessor CommandContextAccessor) WithOutputFormat(parentContext context.Context, outputFormat string) context.Context {
	return accessor.withString(parentContext, outputFormatContextKeyConstant, outputFormat)
}

// OutputFormat extracts the configured default output format.
func (accessor CommandContextAccessor) OutputFormat(executionContext context.Context) (string, bool) {
	return accessor.stringValue(executionContext, outputFormatContextKeyConstant)
}

func (accessor CommandContextAccessor) withString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, valueAvailable := executionContext.Value(key).(string)
	if !valueAvailable {
		return "", false
	}
	return value, true
}
