package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/registry"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/rename"
)

const (
	moveTargetTrackedMessageConstant = "destination is already tracked"
	movedLogMessageConstant          = "Moved repo"
	destinationFieldConstant         = "destination"
)

// Move relocates a tracked working copy on disk and re-records it under newPath with its tags and remotes. The repo
// name is derived again from the new path.
func (service *Service) Move(executionContext context.Context, oldPath string, newPath string) error {
	return service.move(executionContext, oldPath, newPath, false)
}

// PlanMove validates a move and reports it without touching the filesystem or the state file.
func (service *Service) PlanMove(executionContext context.Context, oldPath string, newPath string) error {
	return service.move(executionContext, oldPath, newPath, true)
}

func (service *Service) move(executionContext context.Context, oldPath string, newPath string, dryRun bool) error {
	if service.dependencies.FileSystem == nil {
		return ErrFileSystemNotConfigured
	}

	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return loadError
	}

	normalizedOldPath := registry.NormalizePath(oldPath)
	normalizedNewPath := registry.NormalizePath(newPath)

	trackedRepo, found := reg.FindByPath(normalizedOldPath)
	if !found {
		return repoerrors.NewStateError(normalizedOldPath, "", registry.ErrRepoNotFound)
	}
	if _, destinationTracked := reg.FindByPath(normalizedNewPath); destinationTracked {
		return repoerrors.NewStateError(normalizedNewPath, moveTargetTrackedMessageConstant, nil)
	}
	movedRepo := trackedRepo.Clone()

	renameExecutor := rename.NewExecutor(rename.Dependencies{FileSystem: service.dependencies.FileSystem, Output: service.dependencies.Output})
	if moveError := renameExecutor.Execute(rename.Options{
		SourcePath:              normalizedOldPath,
		TargetPath:              normalizedNewPath,
		DryRun:                  dryRun,
		EnsureParentDirectories: true,
	}); moveError != nil {
		return moveError
	}
	if dryRun {
		return nil
	}

	reg.RemoveByPath(normalizedOldPath)
	movedRepo.Path = normalizedNewPath
	movedRepo.Name = registry.DefaultName(normalizedNewPath)
	reg.Add(movedRepo)

	service.logger.Info(movedLogMessageConstant, zap.String(repoPathFieldConstant, normalizedOldPath), zap.String(destinationFieldConstant, normalizedNewPath))
	return service.dependencies.Store.Save(reg)
}
