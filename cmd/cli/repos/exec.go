package repos

import (
	"github.com/spf13/cobra"

	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	execUseConstant       = "exec [-t tag] -- <command> [argument...]"
	execShortDescription  = "Run a command in every selected repo"
	execLongDescription   = "exec runs the command inside each selected working copy in turn and reports how many runs failed."
	execOperationConstant = "run command"
)

func (builder *CommandGroupBuilder) buildExecCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   execUseConstant,
		Short: execShortDescription,
		Long:  execLongDescription,
		Args:  cobra.MinimumNArgs(1),
	}
	command.Flags().SetInterspersed(false)
	tagFilterValues := flagutils.BindTagFilterFlags(command)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		service, serviceError := builder.newService(command)
		if serviceError != nil {
			return serviceError
		}
		result, execError := service.Exec(command.Context(), tagFilterValues.Filter(), arguments[0], arguments[1:])
		if execError != nil {
			return execError
		}
		return bulkOutcome(execOperationConstant, result)
	}
	return command
}
