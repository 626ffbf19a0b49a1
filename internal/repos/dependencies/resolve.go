package dependencies

import (
	"go.uber.org/zap"

	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/repos/discovery"
	"github.com/rsenna/gitopolis/internal/repos/filesystem"
	"github.com/rsenna/gitopolis/internal/repos/shared"
	"github.com/rsenna/gitopolis/internal/state"
	"github.com/rsenna/gitopolis/internal/ui"
)

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default skipping excluded
// directory names.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer, excludedDirectoryNames []string) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer(excludedDirectoryNames...)
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveShellExecutor constructs an OS-backed shell executor. Human-readable logging reports command lifecycle
// through the console event logger instead of structured fields.
func ResolveShellExecutor(logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		return execshell.NewShellExecutor(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

// ResolveGitExecutor returns the provided executor or a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return ResolveShellExecutor(logger, humanReadableLogging)
}

// ResolveCommandExecutor returns the provided executor or a shell-backed default.
func ResolveCommandExecutor(existing shared.CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	return ResolveShellExecutor(logger, humanReadableLogging)
}

// ResolveGitBackend returns the provided backend or a git-invoking repository manager.
func ResolveGitBackend(existing shared.GitBackend, executor shared.GitExecutor, fileSystem shared.FileSystem) (shared.GitBackend, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor, fileSystem)
}

// ResolveStateStore returns a registry store over the provided storage, or over the state file at stateFilePath.
func ResolveStateStore(existing shared.StateStorage, fileSystem shared.FileSystem, stateFilePath string) (*state.Store, error) {
	if existing != nil {
		return state.NewStore(existing)
	}
	fileStorage, storageError := state.NewFileStorage(fileSystem, stateFilePath)
	if storageError != nil {
		return nil, storageError
	}
	return state.NewStore(fileStorage)
}
