package repos

import (
	"github.com/spf13/cobra"
)

const (
	addUseConstant            = "add <path>..."
	addShortDescription       = "Track the working copies at the given paths"
	addLongDescription        = "add records each working copy with its current remotes. Paths already tracked are left unchanged."
	addRecursiveFlagName      = "recursive"
	addRecursiveFlagShorthand = "r"
	addRecursiveFlagUsage     = "Treat arguments as roots and track every working copy found beneath them"
)

func (builder *CommandGroupBuilder) buildAddCommand() *cobra.Command {
	recursive := false
	command := &cobra.Command{
		Use:   addUseConstant,
		Short: addShortDescription,
		Long:  addLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService(command)
			if serviceError != nil {
				return serviceError
			}
			if recursive {
				return service.AddRecursive(command.Context(), arguments)
			}
			return service.Add(command.Context(), arguments)
		},
	}
	command.Flags().BoolVarP(&recursive, addRecursiveFlagName, addRecursiveFlagShorthand, false, addRecursiveFlagUsage)
	return command
}
