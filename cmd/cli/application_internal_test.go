package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/require"

	"github.com/rsenna/gitopolis/cmd/cli/repos"
	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/gitrepo"
)

const (
	internalTestStateFileConstant = ".gitopolis.toml"
	internalTestOriginURLConstant = "git@github.com:org/api.git"
	internalTestMirrorURLConstant = "https://mirror.example.com/api.git"
)

type fakeGitBackend struct {
	live        map[string]map[string]gitrepo.RemoteURL
	cloneErrors map[string]error
	cloned      []string
	added       []string
}

func newFakeGitBackend() *fakeGitBackend {
	return &fakeGitBackend{
		live:        map[string]map[string]gitrepo.RemoteURL{},
		cloneErrors: map[string]error{},
	}
}

func (backend *fakeGitBackend) ReadAllRemotes(_ context.Context, repositoryPath string) (map[string]gitrepo.RemoteURL, error) {
	remotes, exists := backend.live[repositoryPath]
	if !exists {
		return nil, errors.New("not a git repository")
	}
	copied := make(map[string]gitrepo.RemoteURL, len(remotes))
	for name, remoteURL := range remotes {
		copied[name] = remoteURL
	}
	return copied, nil
}

func (backend *fakeGitBackend) ReadRemoteURL(_ context.Context, repositoryPath string, remoteName string) (gitrepo.RemoteURL, error) {
	return backend.live[repositoryPath][remoteName], nil
}

func (backend *fakeGitBackend) AddRemote(_ context.Context, repositoryPath string, remoteName string, remoteURL gitrepo.RemoteURL) error {
	backend.added = append(backend.added, repositoryPath+" "+remoteName)
	backend.live[repositoryPath][remoteName] = remoteURL
	return nil
}

func (backend *fakeGitBackend) Clone(_ context.Context, repositoryPath string, remoteURL gitrepo.RemoteURL) error {
	if cloneError := backend.cloneErrors[repositoryPath]; cloneError != nil {
		return cloneError
	}
	backend.cloned = append(backend.cloned, repositoryPath)
	if _, exists := backend.live[repositoryPath]; !exists {
		backend.live[repositoryPath] = map[string]gitrepo.RemoteURL{"origin": remoteURL}
	}
	return nil
}

type scriptedCommandExecutor struct {
	failures map[string]error
	commands []execshell.ShellCommand
}

func (executor *scriptedCommandExecutor) ExecuteCommand(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, command)
	if failure := executor.failures[command.Details.WorkingDirectory]; failure != nil {
		return execshell.ExecutionResult{StandardError: "boom\n"}, failure
	}
	return execshell.ExecutionResult{StandardOutput: "ok\n"}, nil
}

type invocationResult struct {
	exitCode int
	stdout   string
	stderr   string
}

func setupInternalWorkspace(testInstance *testing.T, stateDocument string) {
	testInstance.Helper()
	testInstance.Setenv("HOME", testcli.MkdirTemp(testInstance))
	testcli.Chdir(testInstance, testcli.MkdirTemp(testInstance))
	if len(stateDocument) > 0 {
		require.NoError(testInstance, os.WriteFile(internalTestStateFileConstant, []byte(stateDocument), 0o644))
	}
}

func invoke(builder repos.CommandGroupBuilder, arguments ...string) invocationResult {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := runApplication(NewApplicationWithCommands(builder), append([]string{applicationNameConstant}, arguments...), strings.NewReader(""), stdout, stderr)
	return invocationResult{exitCode: exitCode, stdout: stdout.String(), stderr: stderr.String()}
}

func readState(testInstance *testing.T) string {
	testInstance.Helper()
	document, readError := os.ReadFile(internalTestStateFileConstant)
	require.NoError(testInstance, readError)
	return string(document)
}

func TestAddCommandRecordsLiveRemotes(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "")
	backend := newFakeGitBackend()
	backend.live["api"] = map[string]gitrepo.RemoteURL{
		"origin": gitrepo.MustParseRemoteURL(internalTestOriginURLConstant),
		"mirror": gitrepo.MustParseRemoteURL(internalTestMirrorURLConstant),
	}

	result := invoke(repos.CommandGroupBuilder{Backend: backend}, "add", "api/")
	require.Equal(testInstance, 0, result.exitCode, result.stderr)
	require.Equal(testInstance, "ADDED: api\n", result.stdout)

	require.Contains(testInstance, readState(testInstance), internalTestMirrorURLConstant)

	repeated := invoke(repos.CommandGroupBuilder{Backend: backend}, "add", "api")
	require.Equal(testInstance, 0, repeated.exitCode, repeated.stderr)
	require.Empty(testInstance, repeated.stdout)
}

func TestAddCommandFailsOnNonRepository(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "")

	result := invoke(repos.CommandGroupBuilder{Backend: newFakeGitBackend()}, "add", "plain-directory")
	require.Equal(testInstance, 1, result.exitCode)
	require.Contains(testInstance, result.stderr, "not a git repository")
	require.NoFileExists(testInstance, internalTestStateFileConstant)
}

func TestCloneCommandContinuesAfterFailures(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, `[[repos]]
path = "api"
tags = ["go"]
[repos.remotes.origin]
name = "origin"
url = "git@github.com:org/api.git"
[repos.remotes.mirror]
name = "mirror"
url = "https://mirror.example.com/api.git"

[[repos]]
path = "broken"
tags = ["go"]
[repos.remotes.origin]
name = "origin"
url = "git@github.com:org/broken.git"

[[repos]]
path = "docs"
[repos.remotes.origin]
name = "origin"
url = "git@github.com:org/docs.git"
`)
	backend := newFakeGitBackend()
	backend.cloneErrors["broken"] = errors.New("repository not found")

	result := invoke(repos.CommandGroupBuilder{Backend: backend}, "clone", "-t", "go")
	require.Equal(testInstance, 1, result.exitCode)
	require.Equal(testInstance, []string{"api"}, backend.cloned)
	require.Equal(testInstance, []string{"api mirror"}, backend.added)
	require.Contains(testInstance, result.stderr, "CLONE-FAILED: broken")
	require.True(testInstance, strings.HasSuffix(result.stderr, "1 repos failed to clone\n"), result.stderr)
}

func TestCloneCommandWithURLTracksNewRepo(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "")
	backend := newFakeGitBackend()

	result := invoke(repos.CommandGroupBuilder{Backend: backend}, "clone", internalTestOriginURLConstant, "-t", "backend,go")
	require.Equal(testInstance, 0, result.exitCode, result.stderr)
	require.Equal(testInstance, []string{"api"}, backend.cloned)

	listing := invoke(repos.CommandGroupBuilder{Backend: backend}, "list", "--long")
	require.Equal(testInstance, 0, listing.exitCode, listing.stderr)
	require.Equal(testInstance, "api\tbackend,go\t"+internalTestOriginURLConstant+"\n", listing.stdout)
}

func TestCloneCommandWithUnnameableURLFails(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "")
	backend := newFakeGitBackend()

	result := invoke(repos.CommandGroupBuilder{Backend: backend}, "clone", "https://example.com/")
	require.Equal(testInstance, 1, result.exitCode)
	require.Contains(testInstance, result.stderr, "state error")
	require.Empty(testInstance, backend.cloned)
}

func TestSyncCommandDirections(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, `[[repos]]
path = "api"
[repos.remotes.origin]
name = "origin"
url = "git@github.com:org/api.git"
[repos.remotes.stale]
name = "stale"
url = "https://stale.example.com/api.git"
`)
	backend := newFakeGitBackend()
	backend.live["api"] = map[string]gitrepo.RemoteURL{
		"origin": gitrepo.MustParseRemoteURL(internalTestOriginURLConstant),
	}

	writeResult := invoke(repos.CommandGroupBuilder{Backend: backend}, "sync", "--write-remotes")
	require.Equal(testInstance, 0, writeResult.exitCode, writeResult.stderr)
	require.Equal(testInstance, []string{"api stale"}, backend.added)

	delete(backend.live["api"], "stale")
	backend.live["api"]["mirror"] = gitrepo.MustParseRemoteURL(internalTestMirrorURLConstant)

	readResult := invoke(repos.CommandGroupBuilder{Backend: backend}, "sync", "--read-remotes")
	require.Equal(testInstance, 0, readResult.exitCode, readResult.stderr)

	state := readState(testInstance)
	require.Contains(testInstance, state, internalTestMirrorURLConstant)
	require.NotContains(testInstance, state, "stale")
}

func TestSyncCommandReportsFailedRepos(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, `[[repos]]
path = "gone"
[repos.remotes.origin]
name = "origin"
url = "git@github.com:org/gone.git"
`)

	result := invoke(repos.CommandGroupBuilder{Backend: newFakeGitBackend()}, "sync", "--read-remotes")
	require.Equal(testInstance, 1, result.exitCode)
	require.Contains(testInstance, result.stderr, "SYNC-FAILED: gone")
	require.Contains(testInstance, result.stderr, "1 repos failed to sync")
}

func TestExecCommandRunsInEverySelectedRepo(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, `[[repos]]
path = "api"
tags = ["go"]

[[repos]]
path = "docs"

[[repos]]
path = "web"
tags = ["go"]
`)
	executor := &scriptedCommandExecutor{failures: map[string]error{"web": errors.New("exit status 1")}}

	result := invoke(repos.CommandGroupBuilder{Backend: newFakeGitBackend(), CommandExecutor: executor}, "exec", "-t", "go", "--", "git", "status", "-s")
	require.Equal(testInstance, 1, result.exitCode)
	require.Len(testInstance, executor.commands, 2)
	require.Equal(testInstance, execshell.CommandName("git"), executor.commands[0].Name)
	require.Equal(testInstance, []string{"status", "-s"}, executor.commands[0].Details.Arguments)
	require.Equal(testInstance, "🏢 api> git status -s\nok\n🏢 web> git status -s\n", result.stdout)
	require.Contains(testInstance, result.stderr, "EXEC-FAILED: web")
	require.Contains(testInstance, result.stderr, "1 repos failed to run command")
}

func TestLogLevelFlagRoutesLogsToStandardError(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "[[repos]]\npath = \"api\"\n")

	result := invoke(repos.CommandGroupBuilder{Backend: newFakeGitBackend()}, "--log-level", "info", "--log-format", "structured", "remove", "ghost")
	require.Equal(testInstance, 0, result.exitCode, result.stderr)
	require.Contains(testInstance, result.stderr, `"msg":"Repo already absent, skipped"`)
	require.Contains(testInstance, result.stderr, `"name":"ghost"`)
}

func TestInvalidLogLevelFails(testInstance *testing.T) {
	setupInternalWorkspace(testInstance, "")

	result := invoke(repos.CommandGroupBuilder{}, "--log-level", "verbose", "list")
	require.Equal(testInstance, 1, result.exitCode)
	require.Contains(testInstance, result.stderr, "unable to create logger")
}

func TestHumanReadableLoggingFollowsFormat(testInstance *testing.T) {
	application := &Application{}
	application.configuration.Common.LogFormat = " Console "
	require.True(testInstance, application.humanReadableLoggingEnabled())

	application.configuration.Common.LogFormat = "structured"
	require.False(testInstance, application.humanReadableLoggingEnabled())
}
