package repos

import (
	"github.com/spf13/cobra"

	"github.com/rsenna/gitopolis/internal/repos/shared"
)

// CommandGroupBuilder assembles the registry commands. Collaborators left nil are resolved to their operating system
// implementations when a command runs.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	Backend                      shared.GitBackend
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	Discoverer                   shared.RepositoryDiscoverer
	CommandExecutor              shared.CommandExecutor
	StateStorage                 shared.StateStorage
}

// Build constructs every registry command in the order they appear in help output.
func (builder *CommandGroupBuilder) Build() ([]*cobra.Command, error) {
	return []*cobra.Command{
		builder.buildAddCommand(),
		builder.buildRemoveCommand(),
		builder.buildListCommand(),
		builder.buildShowCommand(),
		builder.buildTagCommand(),
		builder.buildTagsCommand(),
		builder.buildCloneCommand(),
		builder.buildSyncCommand(),
		builder.buildMoveCommand(),
		builder.buildExecCommand(),
	}, nil
}
