package execshell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// OSCommandRunner starts processes with os/exec and captures both output streams.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts command in its working directory and waits for it. A process that ran and exited non-zero is reported
// through ExecutionResult.ExitCode; only failures to start or wait are returned as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory

	standardOutput := &strings.Builder{}
	standardError := &strings.Builder{}
	process.Stdout = standardOutput
	process.Stderr = standardError

	runError := process.Run()
	result := ExecutionResult{StandardOutput: standardOutput.String(), StandardError: standardError.String()}
	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}
	result.ExitCode = exitError.ExitCode()
	return result, nil
}
