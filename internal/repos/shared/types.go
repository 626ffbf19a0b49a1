package shared

import (
	"context"
	"io/fs"

	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/gitrepo"
)

// FileSystem exposes filesystem operations required by registry services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Rename(oldPath string, newPath string) error
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandExecutor runs arbitrary commands inside working copies.
type CommandExecutor interface {
	ExecuteCommand(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// GitBackend is the version-control collaborator of the registry engine.
type GitBackend interface {
	ReadAllRemotes(executionContext context.Context, repositoryPath string) (map[string]gitrepo.RemoteURL, error)
	ReadRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (gitrepo.RemoteURL, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL gitrepo.RemoteURL) error
	// Clone must succeed without changes when repositoryPath already exists.
	Clone(executionContext context.Context, repositoryPath string, remoteURL gitrepo.RemoteURL) error
}

// StateStorage persists the serialized registry document.
type StateStorage interface {
	Exists() (bool, error)
	Read() ([]byte, error)
	Save(document []byte) error
}

// RepositoryDiscoverer locates Git repositories for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}
