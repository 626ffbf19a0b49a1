package repos

import (
	"github.com/spf13/cobra"

	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	listUseConstant      = "list"
	listShortDescription = "List tracked repos"
	listLongDescription  = "list prints tracked repos ordered by name, optionally filtered by tag."
	showUseConstant      = "show <name|path>"
	showShortDescription = "Show a single tracked repo"
	showLongDescription  = "show prints the tags and remotes of one repo, looked up by path first and then by name."
)

func (builder *CommandGroupBuilder) buildListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     listUseConstant,
		Aliases: []string{"ls"},
		Short:   listShortDescription,
		Long:    listLongDescription,
		Args:    cobra.NoArgs,
	}
	tagFilterValues := flagutils.BindTagFilterFlags(command)
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
		repos, listError := service.List(command.Context(), tagFilterValues.Filter())
		if listError != nil {
			return listError
		}
		return renderer.Repos(repos, longValues.Enabled)
	}
	return command
}

func (builder *CommandGroupBuilder) buildShowCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   showUseConstant,
		Short: showShortDescription,
		Long:  showLongDescription,
		Args:  cobra.ExactArgs(1),
	}
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
		repo, showError := service.Show(command.Context(), arguments[0])
		if showError != nil {
			return showError
		}
		return renderer.Repo(repo)
	}
	return command
}
