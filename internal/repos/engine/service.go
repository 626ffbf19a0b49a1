package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/registry"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	storeNotConfiguredMessageConstant      = "registry store not configured"
	backendNotConfiguredMessageConstant    = "git backend not configured"
	discovererNotConfiguredMessageConstant = "repository discoverer not configured"
	fileSystemNotConfiguredMessageConstant = "filesystem not configured"
	executorNotConfiguredMessageConstant   = "command executor not configured"
	repoAddedLogMessageConstant            = "Added repo"
	repoAlreadyTrackedLogMessageConstant   = "Repo already added, ignoring"
	repoAbsentLogMessageConstant           = "Repo already absent, skipped"
	repoPathFieldConstant                  = "path"
	repoNameFieldConstant                  = "name"
	addedMessageTemplate                   = "ADDED: %s\n"
	removedMessageTemplate                 = "REMOVED: %s\n"
	discoveredMessageTemplate              = "DISCOVERED: %d repositories\n"
)

var (
	// ErrStoreNotConfigured indicates the service was constructed without a registry store.
	ErrStoreNotConfigured = errors.New(storeNotConfiguredMessageConstant)
	// ErrBackendNotConfigured indicates an operation needed the git backend but none was supplied.
	ErrBackendNotConfigured = errors.New(backendNotConfiguredMessageConstant)
	// ErrDiscovererNotConfigured indicates recursive discovery was requested without a discoverer.
	ErrDiscovererNotConfigured = errors.New(discovererNotConfiguredMessageConstant)
	// ErrFileSystemNotConfigured indicates a move was requested without a filesystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	// ErrCommandExecutorNotConfigured indicates exec was requested without a command executor.
	ErrCommandExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// RegistryStore loads and persists the Registry.
type RegistryStore interface {
	Load() (*registry.Registry, error)
	Save(reg *registry.Registry) error
}

// Dependencies supplies the collaborators used by Service operations. Only Store is mandatory; the remaining
// collaborators are checked by the operations that need them.
type Dependencies struct {
	Store           RegistryStore
	Backend         shared.GitBackend
	FileSystem      shared.FileSystem
	Discoverer      shared.RepositoryDiscoverer
	CommandExecutor shared.CommandExecutor
	Logger          *zap.Logger
	Output          io.Writer
	Errors          io.Writer
}

// Service executes registry operations against the persisted state.
type Service struct {
	dependencies Dependencies
	logger       *zap.Logger
	output       shared.Reporter
	errors       shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dependencies: dependencies,
		logger:       logger,
		output:       shared.NewWriterReporter(dependencies.Output),
		errors:       shared.NewWriterReporter(dependencies.Errors),
	}, nil
}

// Add tracks the working copies at paths, recording their live remotes. Already tracked paths are ignored. The
// first backend failure aborts the call and nothing is saved.
func (service *Service) Add(executionContext context.Context, paths []string) error {
	if service.dependencies.Backend == nil {
		return ErrBackendNotConfigured
	}

	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return loadError
	}

	changed := false
	for _, path := range paths {
		added, addError := service.addPath(executionContext, reg, path)
		if addError != nil {
			return addError
		}
		changed = changed || added
	}

	if !changed {
		return nil
	}
	return service.dependencies.Store.Save(reg)
}

// AddRecursive discovers working copies beneath roots and tracks every one not tracked yet.
func (service *Service) AddRecursive(executionContext context.Context, roots []string) error {
	if service.dependencies.Discoverer == nil {
		return ErrDiscovererNotConfigured
	}

	discoveredPaths, discoveryError := service.dependencies.Discoverer.DiscoverRepositories(roots)
	if discoveryError != nil {
		return repoerrors.NewIOError("", "", discoveryError)
	}
	service.output.Printf(discoveredMessageTemplate, len(discoveredPaths))

	return service.Add(executionContext, discoveredPaths)
}

// Remove untracks repos by name. Names that match nothing are logged and skipped.
func (service *Service) Remove(executionContext context.Context, names []string) error {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return loadError
	}

	removedNames, skippedNames := reg.RemoveByNames(names)
	for _, skippedName := range skippedNames {
		service.logger.Info(repoAbsentLogMessageConstant, zap.String(repoNameFieldConstant, skippedName))
	}
	for _, removedName := range removedNames {
		service.output.Printf(removedMessageTemplate, removedName)
	}

	return service.dependencies.Store.Save(reg)
}

// AddTag applies tag to every named repo. An unknown name fails the whole call.
func (service *Service) AddTag(executionContext context.Context, tag string, names []string) error {
	return service.mutate(func(reg *registry.Registry) error {
		return reg.AddTag(tag, names)
	})
}

// RemoveTag removes tag from every named repo. An unknown name fails the whole call.
func (service *Service) RemoveTag(executionContext context.Context, tag string, names []string) error {
	return service.mutate(func(reg *registry.Registry) error {
		return reg.RemoveTag(tag, names)
	})
}

// List returns the repos matching filter ordered by name.
func (service *Service) List(executionContext context.Context, filter registry.TagFilter) ([]registry.Repo, error) {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return nil, loadError
	}
	return reg.List(filter), nil
}

// Tags returns every tag in use.
func (service *Service) Tags(executionContext context.Context) ([]string, error) {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return nil, loadError
	}
	return reg.Tags(), nil
}

// Read returns the whole Registry.
func (service *Service) Read(executionContext context.Context) (*registry.Registry, error) {
	return service.dependencies.Store.Load()
}

// Show resolves a repo by normalized path first and by name second.
func (service *Service) Show(executionContext context.Context, nameOrPath string) (registry.Repo, error) {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return registry.Repo{}, loadError
	}
	if repo, found := reg.FindByPath(nameOrPath); found {
		return repo.Clone(), nil
	}
	if repo, found := reg.FindByName(nameOrPath); found {
		return repo.Clone(), nil
	}
	return registry.Repo{}, repoerrors.NewStateError(nameOrPath, "", registry.ErrRepoNotFound)
}

func (service *Service) addPath(executionContext context.Context, reg *registry.Registry, path string) (bool, error) {
	normalizedPath := registry.NormalizePath(path)
	if _, tracked := reg.FindByPath(normalizedPath); tracked {
		service.logger.Info(repoAlreadyTrackedLogMessageConstant, zap.String(repoPathFieldConstant, normalizedPath))
		return false, nil
	}

	liveRemotes, readError := service.dependencies.Backend.ReadAllRemotes(executionContext, normalizedPath)
	if readError != nil {
		return false, readError
	}

	reg.Add(registry.NewRepo(normalizedPath, liveRemotes))
	service.logger.Info(repoAddedLogMessageConstant, zap.String(repoPathFieldConstant, normalizedPath))
	service.output.Printf(addedMessageTemplate, normalizedPath)
	return true, nil
}

func (service *Service) mutate(mutation func(reg *registry.Registry) error) error {
	reg, loadError := service.dependencies.Store.Load()
	if loadError != nil {
		return loadError
	}
	if mutationError := mutation(reg); mutationError != nil {
		return mutationError
	}
	return service.dependencies.Store.Save(reg)
}

func describeItemFailure(subject string, itemError error) error {
	if _, classified := repoerrors.KindOf(itemError); classified {
		return itemError
	}
	return fmt.Errorf("%s: %w", subject, itemError)
}
