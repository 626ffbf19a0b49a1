package remotes

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/registry"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	readSuccessMessage            = "SYNC-READ: %s (%d remotes)\n"
	writeAddedMessage             = "SYNC-WRITE: %s added %s %s\n"
	writeUpToDateMessage          = "SYNC-WRITE: %s (up to date)\n"
	backendNotConfiguredMessage   = "git backend not configured"
	directionNotSupportedTemplate = "unsupported sync direction %s"
)

// ErrBackendNotConfigured indicates the executor has no git backend.
var ErrBackendNotConfigured = errors.New(backendNotConfiguredMessage)

// Options configures reconciliation of a single repo.
type Options struct {
	Repo      registry.Repo
	Direction shared.RemoteSyncDirection
}

// Dependencies captures collaborators required to reconcile remotes.
type Dependencies struct {
	Backend shared.GitBackend
	Output  io.Writer
}

// Executor reconciles declared remotes with the live remotes of a working copy.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor constructs an Executor from the provided dependencies.
func NewExecutor(dependencies Dependencies) *Executor {
	return &Executor{dependencies: dependencies}
}

// Execute reconciles options.Repo and returns the repo as it should be recorded afterwards.
// Reading replaces the declared remotes with the live ones. Writing adds declared remotes whose names are absent
// from the working copy and never removes or rewrites live remotes.
func (executor *Executor) Execute(executionContext context.Context, options Options) (registry.Repo, error) {
	if executor.dependencies.Backend == nil {
		return options.Repo, ErrBackendNotConfigured
	}

	switch options.Direction {
	case shared.RemoteSyncRead:
		return executor.read(executionContext, options.Repo)
	case shared.RemoteSyncWrite:
		return executor.write(executionContext, options.Repo)
	default:
		return options.Repo, fmt.Errorf(directionNotSupportedTemplate, options.Direction)
	}
}

func (executor *Executor) read(executionContext context.Context, repo registry.Repo) (registry.Repo, error) {
	liveRemotes, readError := executor.dependencies.Backend.ReadAllRemotes(executionContext, repo.Path)
	if readError != nil {
		return repo, readError
	}

	updatedRepo := repo.Clone()
	updatedRepo.ReplaceRemotes(liveRemotes)
	executor.printfOutput(readSuccessMessage, repo.Path, len(liveRemotes))
	return updatedRepo, nil
}

func (executor *Executor) write(executionContext context.Context, repo registry.Repo) (registry.Repo, error) {
	liveRemotes, readError := executor.dependencies.Backend.ReadAllRemotes(executionContext, repo.Path)
	if readError != nil {
		return repo, readError
	}

	missingRemotes := MissingRemotes(repo, liveRemotes)
	if len(missingRemotes) == 0 {
		executor.printfOutput(writeUpToDateMessage, repo.Path)
		return repo, nil
	}

	for _, remote := range missingRemotes {
		if addError := executor.dependencies.Backend.AddRemote(executionContext, repo.Path, remote.Name, remote.URL); addError != nil {
			return repo, addError
		}
		executor.printfOutput(writeAddedMessage, repo.Path, remote.Name, remote.URL)
	}
	return repo, nil
}

// MissingRemotes lists the declared remotes of repo whose names are absent from liveRemotes, ordered by name.
func MissingRemotes(repo registry.Repo, liveRemotes map[string]gitrepo.RemoteURL) []registry.Remote {
	missingRemotes := []registry.Remote{}
	for _, remoteName := range repo.RemoteNames() {
		if _, exists := liveRemotes[remoteName]; exists {
			continue
		}
		missingRemotes = append(missingRemotes, repo.Remotes[remoteName])
	}
	return missingRemotes
}

func (executor *Executor) printfOutput(format string, arguments ...any) {
	if executor.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(executor.dependencies.Output, format, arguments...)
}
