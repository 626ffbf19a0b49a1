package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/format"
	"github.com/rsenna/gitopolis/internal/repos/dependencies"
	"github.com/rsenna/gitopolis/internal/repos/engine"
	"github.com/rsenna/gitopolis/internal/utils"
	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
	pathutils "github.com/rsenna/gitopolis/internal/utils/path"
)

const (
	bulkFailureErrorTemplateConstant = "%d repos failed to %s"
	formatFlagNameConstant           = "format"
	formatFlagUsageConstant          = "Output format."
)

var (
	homeDirectoryExpander  = pathutils.NewHomeExpander()
	commandContextAccessor = utils.NewCommandContextAccessor()
	formatChoices          = []string{string(format.Text), string(format.Table), string(format.YAML), string(format.JSON)}
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// BulkFailureError reports that some items of a bulk command failed after all of them were attempted.
type BulkFailureError struct {
	Operation string
	Result    engine.BulkResult
}

// Error describes the failure count.
func (bulkError BulkFailureError) Error() string {
	return fmt.Sprintf(bulkFailureErrorTemplateConstant, bulkError.Result.Failed, bulkError.Operation)
}

// Unwrap exposes the per-item errors.
func (bulkError BulkFailureError) Unwrap() error {
	return bulkError.Result.Err()
}

func bulkOutcome(operation string, result engine.BulkResult) error {
	if result.Succeeded() {
		return nil
	}
	return BulkFailureError{Operation: operation, Result: result}
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// newService assembles an engine service for the running command, resolving every collaborator the builder does not
// inject.
func (builder *CommandGroupBuilder) newService(command *cobra.Command) (*engine.Service, error) {
	configuration := builder.resolveConfiguration(command)
	logger := resolveLogger(builder.LoggerProvider)
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)

	gitExecutor, gitExecutorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if gitExecutorError != nil {
		return nil, gitExecutorError
	}
	backend, backendError := dependencies.ResolveGitBackend(builder.Backend, gitExecutor, fileSystem)
	if backendError != nil {
		return nil, backendError
	}
	commandExecutor, commandExecutorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, humanReadableLogging)
	if commandExecutorError != nil {
		return nil, commandExecutorError
	}
	store, storeError := dependencies.ResolveStateStore(builder.StateStorage, fileSystem, configuration.State.File)
	if storeError != nil {
		return nil, storeError
	}

	return engine.NewService(engine.Dependencies{
		Store:           store,
		Backend:         backend,
		FileSystem:      fileSystem,
		Discoverer:      dependencies.ResolveRepositoryDiscoverer(builder.Discoverer, configuration.Discovery.Exclude),
		CommandExecutor: commandExecutor,
		Logger:          logger,
		Output:          command.OutOrStdout(),
		Errors:          command.ErrOrStderr(),
	})
}

// resolveConfiguration merges the configuration provider with values the root command stored in the context.
func (builder *CommandGroupBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command != nil {
		if stateFilePath, available := commandContextAccessor.StateFilePath(command.Context()); available && len(strings.TrimSpace(stateFilePath)) > 0 {
			configuration.State.File = stateFilePath
		}
		if outputFormat, available := commandContextAccessor.OutputFormat(command.Context()); available && len(strings.TrimSpace(outputFormat)) > 0 {
			configuration.Output.Format = outputFormat
		}
	}
	return configuration.sanitize()
}

// bindFormatFlag attaches --format, whose default comes from configuration when the flag is not given.
func bindFormatFlag(command *cobra.Command) *flagutils.ChoiceValue {
	choice := flagutils.NewChoiceValue(string(format.Text), formatChoices)
	command.Flags().Var(choice, formatFlagNameConstant, flagutils.FormatChoiceUsage(string(format.Text), formatChoices, formatFlagUsageConstant))
	return choice
}

func (builder *CommandGroupBuilder) resolveRenderer(command *cobra.Command, choice *flagutils.ChoiceValue) (*format.Renderer, error) {
	requestedFormat := builder.resolveConfiguration(command).Output.Format
	if command.Flags().Changed(formatFlagNameConstant) {
		requestedFormat = choice.String()
	}
	parsedFormat, parseError := format.ParseFormat(requestedFormat)
	if parseError != nil {
		return nil, parseError
	}
	return format.NewRenderer(command.OutOrStdout(), parsedFormat), nil
}
