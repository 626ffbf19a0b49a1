package repos

import "github.com/spf13/cobra"

const (
	removeUseConstant      = "remove <name>..."
	removeShortDescription = "Stop tracking repos by name"
	removeLongDescription  = "remove drops the named repos from the registry. Working copies stay on disk and unknown names are skipped."
)

func (builder *CommandGroupBuilder) buildRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     removeUseConstant,
		Aliases: []string{"rm"},
		Short:   removeShortDescription,
		Long:    removeLongDescription,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService(command)
			if serviceError != nil {
				return serviceError
			}
			return service.Remove(command.Context(), arguments)
		},
	}
}
