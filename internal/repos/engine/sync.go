package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/registry"
	"github.com/rsenna/gitopolis/internal/repos/remotes"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	syncFailedMessageTemplate    = "SYNC-FAILED: %s (%v)\n"
	syncFailedLogMessageConstant = "Could not sync remotes"
	directionFieldConstant       = "direction"
)

// Sync reconciles remotes of the repos selected by filter in the given direction.
func (service *Service) Sync(executionContext context.Context, direction shared.RemoteSyncDirection, filter registry.TagFilter) (BulkResult, error) {
	switch direction {
	case shared.RemoteSyncRead:
		return service.SyncReadRemotes(executionContext, filter)
	case shared.RemoteSyncWrite:
		return service.SyncWriteRemotes(executionContext, filter)
	default:
		return BulkResult{}, shared.ErrRemoteSyncDirectionRequired
	}
}

// SyncReadRemotes replaces the declared remotes of each selected repo with the remotes configured in its working
// copy. Successful repos are persisted even when others fail.
func (service *Service) SyncReadRemotes(executionContext context.Context, filter registry.TagFilter) (BulkResult, error) {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return BulkResult{}, loadError
	}

	result := service.syncRepos(executionContext, reg, filter, shared.RemoteSyncRead)
	if saveError := service.dependencies.Store.Save(reg); saveError != nil {
		return result, saveError
	}
	return result, nil
}

// SyncWriteRemotes adds declared remotes missing from each selected working copy. Live remotes are never removed and
// the registry is not modified.
func (service *Service) SyncWriteRemotes(executionContext context.Context, filter registry.TagFilter) (BulkResult, error) {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return BulkResult{}, loadError
	}
	return service.syncRepos(executionContext, reg, filter, shared.RemoteSyncWrite), nil
}

func (service *Service) syncRepos(executionContext context.Context, reg *registry.Registry, filter registry.TagFilter, direction shared.RemoteSyncDirection) BulkResult {
	result := BulkResult{}
	remoteExecutor := remotes.NewExecutor(remotes.Dependencies{Backend: service.dependencies.Backend, Output: service.dependencies.Output})

	for _, repo := range reg.List(filter) {
		updatedRepo, syncError := remoteExecutor.Execute(executionContext, remotes.Options{Repo: repo, Direction: direction})
		if syncError != nil {
			syncError = describeItemFailure(repo.Path, syncError)
			service.logger.Warn(syncFailedLogMessageConstant,
				zap.String(repoPathFieldConstant, repo.Path),
				zap.String(directionFieldConstant, fmt.Sprint(direction)),
				zap.Error(syncError),
			)
			service.errors.Printf(syncFailedMessageTemplate, repo.Path, syncError)
			result.record(syncError)
			continue
		}

		if trackedRepo, found := reg.FindByPath(repo.Path); found {
			trackedRepo.Remotes = updatedRepo.Remotes
		}
		result.record(nil)
	}

	return result
}
