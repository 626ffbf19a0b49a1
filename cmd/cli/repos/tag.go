package repos

import (
	"github.com/spf13/cobra"

	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	tagUseConstant          = "tag <tag> <name>..."
	tagShortDescription     = "Add or remove a tag on repos"
	tagLongDescription      = "tag applies a tag to every named repo. Any unknown name aborts the command without changes."
	tagRemoveFlagName       = "remove"
	tagRemoveFlagShorthand  = "r"
	tagRemoveFlagUsage      = "Remove the tag instead of adding it"
	tagsUseConstant         = "tags"
	tagsShortDescription    = "List tags in use"
	tagsLongDescription     = "tags prints every tag in use. With --long each tag is followed by the repos carrying it."
	minimumTagArgumentCount = 2
)

func (builder *CommandGroupBuilder) buildTagCommand() *cobra.Command {
	removeTag := false
	command := &cobra.Command{
		Use:   tagUseConstant,
		Short: tagShortDescription,
		Long:  tagLongDescription,
		Args:  cobra.MinimumNArgs(minimumTagArgumentCount),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := builder.newService(command)
			if serviceError != nil {
				return serviceError
			}
			tag, names := arguments[0], arguments[1:]
			if removeTag {
				return service.RemoveTag(command.Context(), tag, names)
			}
			return service.AddTag(command.Context(), tag, names)
		},
	}
	command.Flags().BoolVarP(&removeTag, tagRemoveFlagName, tagRemoveFlagShorthand, false, tagRemoveFlagUsage)
	return command
}

func (builder *CommandGroupBuilder) buildTagsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   tagsUseConstant,
		Short: tagsShortDescription,
		Long:  tagsLongDescription,
		Args:  cobra.NoArgs,
	}
	longValues := flagutils.BindLongFlag(command)
	formatChoice := bindFormatFlag(command)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		renderer, rendererError := builder.resolveRenderer(command, formatChoice)
		if rendererError != nil {
			return rendererError
		}
		service, serviceError := builder.newService(command)
		if serviceError != nil {
			return serviceError
		}
		reg, readError := service.Read(command.Context())
		if readError != nil {
			return readError
		}
		return renderer.Tags(reg.Tags(), reg.Repos(), longValues.Enabled)
	}
	return command
}
