package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/registry"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/remotes"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	cloneStartedMessageTemplate       = "CLONE: %s from %s\n"
	cloneFailedMessageTemplate        = "CLONE-FAILED: %s (%v)\n"
	noRemotesMessageConstant          = "no remotes to clone from"
	invalidCloneURLMessageConstant    = "invalid clone url"
	undeterminedTargetMessageConstant = "unable to determine target directory"
	cloneFailedLogMessageConstant     = "Could not clone repo"
	cloneAddedLogMessageConstant      = "Cloned and added repo"
	errorFieldConstant                = "error"
	urlFieldConstant                  = "url"
)

// CloneMatching clones every tracked repo selected by filter.
func (service *Service) CloneMatching(executionContext context.Context, filter registry.TagFilter) (BulkResult, error) {
	repos, listError := service.List(executionContext, filter)
	if listError != nil {
		return BulkResult{}, listError
	}
	return service.Clone(executionContext, repos), nil
}

// Clone materializes each repo from its primary remote and then configures its remaining remotes. A failing repo is
// counted and the remaining repos are still processed.
func (service *Service) Clone(executionContext context.Context, repos []registry.Repo) BulkResult {
	result := BulkResult{}
	for _, repo := range repos {
		cloneError := service.cloneRepo(executionContext, repo)
		if cloneError != nil {
			service.logger.Warn(cloneFailedLogMessageConstant, zap.String(repoPathFieldConstant, repo.Path), zap.Error(cloneError))
			service.errors.Printf(cloneFailedMessageTemplate, repo.Path, cloneError)
		}
		result.record(cloneError)
	}
	return result
}

// CloneAndAdd clones remoteURL into target, or into a directory named after the URL when target is empty, tracks the
// working copy and applies tags to it. The returned path is the tracked path.
func (service *Service) CloneAndAdd(executionContext context.Context, remoteURL string, target string, tags []string) (string, error) {
	if service.dependencies.Backend == nil {
		return "", ErrBackendNotConfigured
	}

	parsedURL, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return "", repoerrors.NewStateError(remoteURL, invalidCloneURLMessageConstant, parseError)
	}

	targetPath := registry.NormalizePath(target)
	if len(strings.TrimSpace(target)) == 0 {
		derivedName, nameError := parsedURL.DirectoryName()
		if nameError != nil {
			return "", repoerrors.NewStateError(remoteURL, undeterminedTargetMessageConstant, nameError)
		}
		targetPath = derivedName
	}

	service.output.Printf(cloneStartedMessageTemplate, targetPath, parsedURL)
	if cloneError := service.dependencies.Backend.Clone(executionContext, targetPath, parsedURL); cloneError != nil {
		return "", cloneError
	}

	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return "", loadError
	}
	if _, addError := service.addPath(executionContext, reg, targetPath); addError != nil {
		return "", addError
	}

	trackedRepo, _ := reg.FindByPath(targetPath)
	for _, tag := range tags {
		trackedRepo.AddTag(tag)
	}

	if saveError := service.dependencies.Store.Save(reg); saveError != nil {
		return "", saveError
	}
	service.logger.Info(cloneAddedLogMessageConstant, zap.String(repoPathFieldConstant, targetPath), zap.String(urlFieldConstant, parsedURL.String()))
	return targetPath, nil
}

func (service *Service) cloneRepo(executionContext context.Context, repo registry.Repo) error {
	if service.dependencies.Backend == nil {
		return ErrBackendNotConfigured
	}

	primaryRemote, found := repo.PrimaryRemote()
	if !found {
		return repoerrors.NewStateError(repo.Path, noRemotesMessageConstant, nil)
	}

	service.output.Printf(cloneStartedMessageTemplate, repo.Path, primaryRemote.URL)
	if cloneError := service.dependencies.Backend.Clone(executionContext, repo.Path, primaryRemote.URL); cloneError != nil {
		return cloneError
	}

	remoteExecutor := remotes.NewExecutor(remotes.Dependencies{Backend: service.dependencies.Backend, Output: service.dependencies.Output})
	_, syncError := remoteExecutor.Execute(executionContext, remotes.Options{Repo: repo, Direction: shared.RemoteSyncWrite})
	if syncError != nil {
		return describeItemFailure(repo.Path, syncError)
	}
	return nil
}
