package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/registry"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	execHeaderMessageTemplate    = "🏢 %s> %s\n"
	execFailedMessageTemplate    = "EXEC-FAILED: %s (%v)\n"
	execFailedLogMessageConstant = "Command failed in repo"
	commandFieldConstant         = "command"
	outputLineTerminatorConstant = "\n"
)

// Exec runs command with arguments inside every repo selected by filter, one repo at a time. Each repo's output is
// written after a header naming the repo.
func (service *Service) Exec(executionContext context.Context, filter registry.TagFilter, command string, arguments []string) (BulkResult, error) {
	if service.dependencies.CommandExecutor == nil {
		return BulkResult{}, ErrCommandExecutorNotConfigured
	}

	repos, listError := service.List(executionContext, filter)
	if listError != nil {
		return BulkResult{}, listError
	}

	commandLine := strings.Join(append([]string{command}, arguments...), " ")
	result := BulkResult{}
	for _, repo := range repos {
		service.output.Printf(execHeaderMessageTemplate, repo.Path, commandLine)
		executionResult, executionError := service.dependencies.CommandExecutor.ExecuteCommand(executionContext, execshell.ShellCommand{
			Name: execshell.CommandName(command),
			Details: execshell.CommandDetails{
				Arguments:        arguments,
				WorkingDirectory: repo.Path,
			},
		})
		writeCollected(service.output, executionResult.StandardOutput)
		writeCollected(service.errors, executionResult.StandardError)

		if executionError != nil {
			executionError = describeItemFailure(repo.Path, executionError)
			service.logger.Warn(execFailedLogMessageConstant, zap.String(repoPathFieldConstant, repo.Path), zap.String(commandFieldConstant, commandLine), zap.Error(executionError))
			service.errors.Printf(execFailedMessageTemplate, repo.Path, executionError)
		}
		result.record(executionError)
	}

	return result, nil
}

func writeCollected(reporter shared.Reporter, collected string) {
	if len(collected) == 0 {
		return
	}
	if !strings.HasSuffix(collected, outputLineTerminatorConstant) {
		collected += outputLineTerminatorConstant
	}
	reporter.Printf("%s", collected)
}
