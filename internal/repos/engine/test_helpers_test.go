package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/registry"
	"github.com/rsenna/gitopolis/internal/repos/engine"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
)

const (
	engineTestOriginURL   = "git@github.com:org/api.git"
	engineTestUpstreamURL = "https://github.com/upstream/api.git"
	engineTestWebURL      = "git@github.com:org/web.git"
)

type memoryStore struct {
	repos     []registry.Repo
	saveCount int
	loadError error
	saveError error
}

func newMemoryStore(repos ...registry.Repo) *memoryStore {
	return &memoryStore{repos: repos}
}

func (store *memoryStore) Load() (*registry.Registry, error) {
	if store.loadError != nil {
		return nil, store.loadError
	}
	return registry.New(store.repos...), nil
}

func (store *memoryStore) Save(reg *registry.Registry) error {
	if store.saveError != nil {
		return store.saveError
	}
	store.saveCount++
	store.repos = reg.Repos()
	return nil
}

func (store *memoryStore) find(path string) (registry.Repo, bool) {
	for _, repo := range store.repos {
		if repo.Path == path {
			return repo, true
		}
	}
	return registry.Repo{}, false
}

type addedRemote struct {
	path string
	name string
	url  string
}

type fakeBackend struct {
	live        map[string]map[string]gitrepo.RemoteURL
	readErrors  map[string]error
	cloneErrors map[string]error
	addErrors   map[string]error
	cloned      []string
	added       []addedRemote
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		live:        map[string]map[string]gitrepo.RemoteURL{},
		readErrors:  map[string]error{},
		cloneErrors: map[string]error{},
		addErrors:   map[string]error{},
	}
}

func (backend *fakeBackend) withWorkingCopy(path string, remotes map[string]string) *fakeBackend {
	liveRemotes := map[string]gitrepo.RemoteURL{}
	for remoteName, remoteURL := range remotes {
		liveRemotes[remoteName] = gitrepo.MustParseRemoteURL(remoteURL)
	}
	backend.live[path] = liveRemotes
	return backend
}

func (backend *fakeBackend) ReadAllRemotes(executionContext context.Context, repositoryPath string) (map[string]gitrepo.RemoteURL, error) {
	if readError, exists := backend.readErrors[repositoryPath]; exists {
		return nil, readError
	}
	liveRemotes, exists := backend.live[repositoryPath]
	if !exists {
		return nil, repoerrors.NewGitError(repositoryPath, "unable to open repository", errors.New("not a git repository"))
	}
	copied := make(map[string]gitrepo.RemoteURL, len(liveRemotes))
	for remoteName, remoteURL := range liveRemotes {
		copied[remoteName] = remoteURL
	}
	return copied, nil
}

func (backend *fakeBackend) ReadRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (gitrepo.RemoteURL, error) {
	return backend.live[repositoryPath][remoteName], nil
}

func (backend *fakeBackend) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL gitrepo.RemoteURL) error {
	if addError, exists := backend.addErrors[repositoryPath]; exists {
		return addError
	}
	backend.added = append(backend.added, addedRemote{path: repositoryPath, name: remoteName, url: remoteURL.String()})
	backend.live[repositoryPath][remoteName] = remoteURL
	return nil
}

func (backend *fakeBackend) Clone(executionContext context.Context, repositoryPath string, remoteURL gitrepo.RemoteURL) error {
	if cloneError, exists := backend.cloneErrors[repositoryPath]; exists {
		return cloneError
	}
	if _, exists := backend.live[repositoryPath]; exists {
		return nil
	}
	backend.cloned = append(backend.cloned, repositoryPath)
	backend.live[repositoryPath] = map[string]gitrepo.RemoteURL{registry.PrimaryRemoteNameConstant: remoteURL}
	return nil
}

type stubDiscoverer struct {
	paths []string
	err   error
	roots []string
}

func (discoverer *stubDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.roots = roots
	return discoverer.paths, discoverer.err
}

type stubFileSystem struct {
	existing     map[string]bool
	renamedPairs [][2]string
	renameError  error
}

func (fileSystem *stubFileSystem) Stat(path string) (fs.FileInfo, error) {
	if fileSystem.existing[path] {
		return stubFileInfo{}, nil
	}
	return nil, fs.ErrNotExist
}

func (fileSystem *stubFileSystem) Rename(oldPath string, newPath string) error {
	if fileSystem.renameError != nil {
		return fileSystem.renameError
	}
	fileSystem.renamedPairs = append(fileSystem.renamedPairs, [2]string{oldPath, newPath})
	delete(fileSystem.existing, oldPath)
	fileSystem.existing[newPath] = true
	return nil
}

func (fileSystem *stubFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	fileSystem.existing[path] = true
	return nil
}

func (fileSystem *stubFileSystem) ReadFile(path string) ([]byte, error) { return nil, fs.ErrNotExist }

func (fileSystem *stubFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return nil
}

type stubFileInfo struct{}

func (stubFileInfo) Name() string       { return "" }
func (stubFileInfo) Size() int64        { return 0 }
func (stubFileInfo) Mode() fs.FileMode  { return fs.ModeDir }
func (stubFileInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (stubFileInfo) IsDir() bool        { return true }
func (stubFileInfo) Sys() any           { return nil }

type recordingCommandExecutor struct {
	commands []execshell.ShellCommand
	results  map[string]execshell.ExecutionResult
	failures map[string]error
}

func (executor *recordingCommandExecutor) ExecuteCommand(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, command)
	result := executor.results[command.Details.WorkingDirectory]
	return result, executor.failures[command.Details.WorkingDirectory]
}

type serviceHarness struct {
	service *engine.Service
	store   *memoryStore
	backend *fakeBackend
	output  *bytes.Buffer
	errors  *bytes.Buffer
	logs    *observer.ObservedLogs
}

func newServiceHarness(testInstance *testing.T, store *memoryStore, backend *fakeBackend, configure func(dependencies *engine.Dependencies)) serviceHarness {
	testInstance.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	harness := serviceHarness{store: store, backend: backend, output: &bytes.Buffer{}, errors: &bytes.Buffer{}, logs: logs}

	dependencies := engine.Dependencies{
		Store:   store,
		Backend: backend,
		Logger:  zap.New(core),
		Output:  harness.output,
		Errors:  harness.errors,
	}
	if configure != nil {
		configure(&dependencies)
	}

	service, creationError := engine.NewService(dependencies)
	require.NoError(testInstance, creationError)
	harness.service = service
	return harness
}

func trackedRepo(path string, remotes map[string]string, tags ...string) registry.Repo {
	remoteURLs := map[string]gitrepo.RemoteURL{}
	for remoteName, remoteURL := range remotes {
		remoteURLs[remoteName] = gitrepo.MustParseRemoteURL(remoteURL)
	}
	repo := registry.NewRepo(path, remoteURLs)
	for _, tag := range tags {
		repo.AddTag(tag)
	}
	return repo
}

func repoPaths(repos []registry.Repo) []string {
	paths := make([]string, 0, len(repos))
	for _, repo := range repos {
		paths = append(paths, repo.Path)
	}
	return paths
}

func outputLines(buffer *bytes.Buffer) []string {
	trimmed := strings.TrimRight(buffer.String(), "\n")
	if len(trimmed) == 0 {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}
