package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CommandName identifies an executable invoked through the shell executor.
type CommandName string

// Known executables.
const (
	CommandGit CommandName = CommandName("git")
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a command runner"
	commandFailedErrorTemplateConstant        = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %s"
	commandStartedLogMessageConstant          = "shell command started"
	commandCompletedLogMessageConstant        = "shell command completed"
	commandFailedLogMessageConstant           = "shell command failed"
	commandExecutionFailedLogMessageConstant  = "shell command execution failed"
	commandNameLogFieldConstant               = "command"
	commandArgumentsLogFieldConstant          = "arguments"
	workingDirectoryLogFieldConstant          = "working_directory"
	exitCodeLogFieldConstant                  = "exit_code"
	standardErrorLogFieldConstant             = "stderr"
	commandMessageLogFieldConstant            = "message"
)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandDetails describes the inputs of a single process invocation.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran but exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failedError CommandFailedError) Error() string {
	standardErrorSuffix := emptyStringConstant
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, CommandMessageFormatter{}.formatCommandLabel(failedError.Command), failedError.Result.ExitCode, standardErrorSuffix)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, CommandMessageFormatter{}.formatCommandLabel(executionError.Command), CommandMessageFormatter{}.describeFailure(executionError.Cause))
}

// Unwrap exposes the underlying runner failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports lifecycle events.
type ShellExecutor struct {
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor. Without observers, lifecycle events are written to the logger as
// structured entries; supplied observers replace that default. Failures are logged at info level because callers
// surface them as returned errors.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	var selectedObserver CommandEventObserver = &structuredCommandEventLogger{logger: logger, formatter: CommandMessageFormatter{}}
	configuredObservers := make(compositeCommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			configuredObservers = append(configuredObservers, observer)
		}
	}
	if len(configuredObservers) > 0 {
		selectedObserver = configuredObservers
	}

	return &ShellExecutor{runner: runner, observer: selectedObserver}, nil
}

// Execute runs the provided command. A non-zero exit code yields CommandFailedError and a runner failure yields
// CommandExecutionError; in both cases the returned result is empty.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executionResult, executionError := executor.ExecuteCommand(executionContext, command)
	if executionError != nil {
		return ExecutionResult{}, executionError
	}
	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteCommand runs an arbitrary executable and returns its result even when it exits with a non-zero code.
func (executor *ShellExecutor) ExecuteCommand(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}
	return executionResult, nil
}

type structuredCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandMessageFormatter
}

func (eventLogger *structuredCommandEventLogger) CommandStarted(command ShellCommand) {
	eventLogger.logger.Debug(commandStartedLogMessageConstant, eventLogger.commandFields(command, zap.String(commandMessageLogFieldConstant, eventLogger.formatter.BuildStartedMessage(command)))...)
}

func (eventLogger *structuredCommandEventLogger) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.logger.Debug(commandCompletedLogMessageConstant, eventLogger.commandFields(command, zap.String(commandMessageLogFieldConstant, eventLogger.formatter.BuildSuccessMessage(command)))...)
		return
	}
	eventLogger.logger.Info(commandFailedLogMessageConstant, eventLogger.commandFields(command,
		zap.Int(exitCodeLogFieldConstant, result.ExitCode),
		zap.String(standardErrorLogFieldConstant, strings.TrimSpace(result.StandardError)),
		zap.String(commandMessageLogFieldConstant, eventLogger.formatter.BuildFailureMessage(command, result)),
	)...)
}

func (eventLogger *structuredCommandEventLogger) CommandExecutionFailed(command ShellCommand, failure error) {
	eventLogger.logger.Info(commandExecutionFailedLogMessageConstant, eventLogger.commandFields(command,
		zap.Error(failure),
		zap.String(commandMessageLogFieldConstant, eventLogger.formatter.BuildExecutionFailureMessage(command, failure)),
	)...)
}

func (eventLogger *structuredCommandEventLogger) commandFields(command ShellCommand, additionalFields ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String(commandNameLogFieldConstant, string(command.Name)),
		zap.Strings(commandArgumentsLogFieldConstant, command.Details.Arguments),
		zap.String(workingDirectoryLogFieldConstant, command.Details.WorkingDirectory),
	}
	return append(fields, additionalFields...)
}
