package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/cmd/cli/repos"
	"github.com/rsenna/gitopolis/internal/utils"
	pathutils "github.com/rsenna/gitopolis/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitopolis"
	applicationShortDescriptionConstant     = "Manage a registry of git working copies"
	applicationLongDescriptionConstant      = "gitopolis tracks local git working copies with their remotes and tags, and clones, syncs, moves, or runs commands across them."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	stateFileFlagNameConstant               = "state-file"
	stateFileFlagUsageConstant              = "Override the location of the state file."
	environmentPrefixConstant               = "GITOPOLIS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationStateFileFieldConstant     = "state_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	errorOutputTemplateConstant             = "%v\n"
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	workingDirectorySearchPathConstant      = "."
	userDirectorySearchPathConstant         = "$HOME/.gitopolis"
	successExitCodeConstant                 = 0
	failureExitCodeConstant                 = 1
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common                     ApplicationCommonConfiguration `mapstructure:"common"`
	repos.CommandConfiguration `mapstructure:",squash"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	stateFileFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a CLI application whose registry commands resolve collaborators from the operating system.
func NewApplication() *Application {
	return NewApplicationWithCommands(repos.CommandGroupBuilder{})
}

// NewApplicationWithCommands assembles a CLI application around the provided registry command builder. The builder's
// logging and configuration providers are bound to the application.
func NewApplicationWithCommands(commandBuilder repos.CommandGroupBuilder) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		pathutils.NewHomeExpander().ExpandAll([]string{workingDirectorySearchPathConstant, userDirectorySearchPathConstant}),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.stateFileFlagValue, stateFileFlagNameConstant, "", stateFileFlagUsageConstant)

	commandBuilder.LoggerProvider = func() *zap.Logger {
		return application.logger
	}
	commandBuilder.HumanReadableLoggingProvider = application.humanReadableLoggingEnabled
	commandBuilder.ConfigurationProvider = func() repos.CommandConfiguration {
		return application.configuration.CommandConfiguration
	}
	registryCommands, buildError := commandBuilder.Build()
	if buildError == nil {
		cobraCommand.AddCommand(registryCommands...)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the command hierarchy with executionContext as the parent of every command context.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// SetArguments replaces the process arguments parsed by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// SetStreams redirects the standard streams of every command.
func (application *Application) SetStreams(input io.Reader, output io.Writer, errorOutput io.Writer) {
	application.rootCommand.SetIn(input)
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(errorOutput)
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// Run executes the CLI with explicit arguments and streams, printing any error to errorOutput, and returns the process
// exit code. The first argument is the program name.
func Run(arguments []string, input io.Reader, output io.Writer, errorOutput io.Writer) int {
	return runApplication(NewApplication(), arguments, input, output, errorOutput)
}

func runApplication(application *Application, arguments []string, input io.Reader, output io.Writer, errorOutput io.Writer) int {
	if len(arguments) > 0 {
		arguments = arguments[1:]
	}
	application.SetArguments(arguments)
	application.SetStreams(input, output, errorOutput)
	if executionError := application.Execute(); executionError != nil {
		fmt.Fprintf(errorOutput, errorOutputTemplateConstant, executionError)
		return failureExitCodeConstant
	}
	return successExitCodeConstant
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues() {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, stateFileFlagNameConstant) {
		application.configuration.State.File = application.stateFileFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLoggerWithWriter(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationStateFileFieldConstant, application.configuration.State.File),
	)

	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
	updatedContext = application.commandContextAccessor.WithStateFilePath(updatedContext, application.configuration.State.File)
	updatedContext = application.commandContextAccessor.WithOutputFormat(updatedContext, application.configuration.Output.Format)
	command.SetContext(updatedContext)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
