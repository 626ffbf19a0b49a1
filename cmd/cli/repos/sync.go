package repos

import (
	"github.com/spf13/cobra"

	"github.com/rsenna/gitopolis/internal/repos/shared"
	flagutils "github.com/rsenna/gitopolis/internal/utils/flags"
)

const (
	syncUseConstant           = "sync --read-remotes|--write-remotes"
	syncShortDescription      = "Reconcile recorded remotes with working copies"
	syncLongDescription       = "sync --read-remotes replaces the recorded remotes of each selected repo with its live remotes. sync --write-remotes adds recorded remotes missing from each working copy and never removes any."
	syncReadRemotesFlagName   = "read-remotes"
	syncReadRemotesFlagUsage  = "Record the live remotes of each working copy"
	syncWriteRemotesFlagName  = "write-remotes"
	syncWriteRemotesFlagUsage = "Add recorded remotes missing from each working copy"
	syncOperationConstant     = "sync"
)

func (builder *CommandGroupBuilder) buildSyncCommand() *cobra.Command {
	readRemotes := false
	writeRemotes := false
	command := &cobra.Command{
		Use:   syncUseConstant,
		Short: syncShortDescription,
		Long:  syncLongDescription,
		Args:  cobra.NoArgs,
	}
	command.Flags().BoolVar(&readRemotes, syncReadRemotesFlagName, false, syncReadRemotesFlagUsage)
	command.Flags().BoolVar(&writeRemotes, syncWriteRemotesFlagName, false, syncWriteRemotesFlagUsage)
	command.MarkFlagsMutuallyExclusive(syncReadRemotesFlagName, syncWriteRemotesFlagName)
	tagFilterValues := flagutils.BindTagFilterFlags(command)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		direction, directionError := shared.RemoteSyncDirectionFromFlags(readRemotes, writeRemotes)
		if directionError != nil {
			return directionError
		}
		service, serviceError := builder.newService(command)
		if serviceError != nil {
			return serviceError
		}
		result, syncError := service.Sync(command.Context(), direction, tagFilterValues.Filter())
		if syncError != nil {
			return syncError
		}
		return bulkOutcome(syncOperationConstant, result)
	}
	return command
}
