package repos

import (
	"github.com/spf13/cobra"

	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	cloneUseConstant          = "clone [url [target]]"
	cloneShortDescription     = "Clone tracked repos, or clone and track a new one"
	cloneLongDescription      = "clone without arguments clones every tracked repo selected by --tag that is missing on disk. With a url it clones that repository into target, or into a directory named after the url, tracks it and applies every --tag value."
	cloneOperationConstant    = "clone"
	cloneMaximumArgumentCount = 2
)

func (builder *CommandGroupBuilder) buildCloneCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		Args:  cobra.MaximumNArgs(cloneMaximumArgumentCount),
	}
	tagFilterValues := flagutils.BindTagFilterFlags(command)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		service, serviceError := builder.newService(command)
		if serviceError != nil {
			return serviceError
		}

		if len(arguments) > 0 {
			target := ""
			if len(arguments) > 1 {
				target = arguments[1]
			}
			_, cloneError := service.CloneAndAdd(command.Context(), arguments[0], target, tagFilterValues.Filter().Tags())
			return cloneError
		}

		result, cloneError := service.CloneMatching(command.Context(), tagFilterValues.Filter())
		if cloneError != nil {
			return cloneError
		}
		return bulkOutcome(cloneOperationConstant, result)
	}
	return command
}
