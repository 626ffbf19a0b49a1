package repos

import (
	"github.com/spf13/cobra"

	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	moveUseConstant      = "move <old-path> <new-path>"
	moveShortDescription = "Move a tracked working copy and update the registry"
	moveLongDescription  = "move renames the working copy directory, creating missing parents, and re-records it under the new path with the same tags and remotes."
	moveArgumentCount    = 2
)

func (builder *CommandGroupBuilder) buildMoveCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     moveUseConstant,
		Aliases: []string{"mv"},
		Short:   moveShortDescription,
		Long:    moveLongDescription,
		Args:    cobra.ExactArgs(moveArgumentCount),
	}
	dryRunValues := flagutils.BindDryRunFlag(command)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		service, serviceError := builder.newService(command)
		if serviceError != nil {
			return serviceError
		}
		if dryRunValues.Enabled {
			return service.PlanMove(command.Context(), arguments[0], arguments[1])
		}
		return service.Move(command.Context(), arguments[0], arguments[1])
	}
	return command
}
