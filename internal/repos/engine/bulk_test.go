package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsenna/gitopolis/internal/execshell"
	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/registry"
	"github.com/rsenna/gitopolis/internal/repos/engine"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

func TestBulkResult(testInstance *testing.T) {
	require.True(testInstance, engine.BulkResult{Attempted: 2}.Succeeded())
	require.NoError(testInstance, engine.BulkResult{Attempted: 2}.Err())

	firstFailure := errors.New("first")
	secondFailure := errors.New("second")
	failed := engine.BulkResult{Attempted: 3, Failed: 2, Errors: []error{firstFailure, secondFailure}}
	require.False(testInstance, failed.Succeeded())
	require.ErrorIs(testInstance, failed.Err(), firstFailure)
	require.ErrorIs(testInstance, failed.Err(), secondFailure)
}

func TestServiceCloneContinuesPastFailures(testInstance *testing.T) {
	store := newMemoryStore(
		trackedRepo("api", map[string]string{"origin": engineTestOriginURL, "upstream": engineTestUpstreamURL}, "go"),
		trackedRepo("docs", nil, "go"),
		trackedRepo("web", map[string]string{"origin": engineTestWebURL}, "go"),
	)
	backend := newFakeBackend()
	backend.cloneErrors["web"] = repoerrors.NewGitError("web", "clone failed", errors.New("repository not found"))
	harness := newServiceHarness(testInstance, store, backend, nil)

	result, cloneError := harness.service.CloneMatching(context.Background(), registry.ParseTagFilter([]string{"go"}))
	require.NoError(testInstance, cloneError)
	require.Equal(testInstance, 3, result.Attempted)
	require.Equal(testInstance, 2, result.Failed)
	require.False(testInstance, result.Succeeded())
	require.True(testInstance, repoerrors.IsKind(result.Errors[0], repoerrors.KindState))
	require.True(testInstance, repoerrors.IsKind(result.Errors[1], repoerrors.KindGit))

	require.Equal(testInstance, []string{"api"}, backend.cloned)
	require.Equal(testInstance, []addedRemote{{path: "api", name: "upstream", url: engineTestUpstreamURL}}, backend.added)
	require.Equal(testInstance, []string{
		"CLONE: api from " + engineTestOriginURL,
		"SYNC-WRITE: api added upstream " + engineTestUpstreamURL,
		"CLONE: web from " + engineTestWebURL,
	}, outputLines(harness.output))
	require.Contains(testInstance, harness.errors.String(), "CLONE-FAILED: docs")
	require.Zero(testInstance, store.saveCount)
}

func TestServiceClonePrefersFirstRemoteWithoutOrigin(testInstance *testing.T) {
	backend := newFakeBackend()
	harness := newServiceHarness(testInstance, newMemoryStore(), backend, nil)

	repo := trackedRepo("api", map[string]string{"upstream": engineTestUpstreamURL, "mirror": engineTestOriginURL})
	result := harness.service.Clone(context.Background(), []registry.Repo{repo})
	require.True(testInstance, result.Succeeded())
	require.Equal(testInstance, engineTestOriginURL, backend.live["api"]["origin"].String())
	require.Equal(testInstance, []addedRemote{
		{path: "api", name: "mirror", url: engineTestOriginURL},
		{path: "api", name: "upstream", url: engineTestUpstreamURL},
	}, backend.added)
}

func TestServiceCloneCountsRemoteConfigurationFailure(testInstance *testing.T) {
	backend := newFakeBackend()
	backend.addErrors["api"] = repoerrors.NewGitError("api", "unable to add remote upstream", errors.New("exit status 3"))
	harness := newServiceHarness(testInstance, newMemoryStore(), backend, nil)

	repo := trackedRepo("api", map[string]string{"origin": engineTestOriginURL, "upstream": engineTestUpstreamURL})
	result := harness.service.Clone(context.Background(), []registry.Repo{repo})
	require.Equal(testInstance, 1, result.Failed)
	require.Equal(testInstance, []string{"api"}, backend.cloned)
}

func TestServiceSyncReadRemotesPersistsSuccesses(testInstance *testing.T) {
	store := newMemoryStore(
		trackedRepo("api", map[string]string{"origin": engineTestOriginURL}),
		trackedRepo("web", map[string]string{"origin": engineTestWebURL}),
	)
	backend := newFakeBackend().withWorkingCopy("api", map[string]string{"origin": engineTestUpstreamURL, "fork": engineTestOriginURL})
	harness := newServiceHarness(testInstance, store, backend, nil)

	result, syncError := harness.service.Sync(context.Background(), shared.RemoteSyncRead, registry.TagFilter{})
	require.NoError(testInstance, syncError)
	require.Equal(testInstance, 2, result.Attempted)
	require.Equal(testInstance, 1, result.Failed)
	require.Equal(testInstance, 1, store.saveCount)

	api, _ := store.find("api")
	require.Equal(testInstance, []string{"fork", "origin"}, api.RemoteNames())
	require.Equal(testInstance, engineTestUpstreamURL, api.Remotes["origin"].URL.String())

	web, _ := store.find("web")
	require.Equal(testInstance, engineTestWebURL, web.Remotes["origin"].URL.String())
	require.Contains(testInstance, harness.errors.String(), "SYNC-FAILED: web")
	require.Equal(testInstance, 1, harness.logs.FilterMessage("Could not sync remotes").Len())
}

func TestServiceSyncWriteRemotesNeverRemoves(testInstance *testing.T) {
	store := newMemoryStore(
		trackedRepo("api", map[string]string{"origin": engineTestOriginURL, "upstream": engineTestUpstreamURL}, "backend"),
		trackedRepo("web", map[string]string{"origin": engineTestWebURL}),
	)
	backend := newFakeBackend().
		withWorkingCopy("api", map[string]string{"origin": engineTestWebURL, "local": engineTestWebURL}).
		withWorkingCopy("web", map[string]string{})
	harness := newServiceHarness(testInstance, store, backend, nil)

	result, syncError := harness.service.Sync(context.Background(), shared.RemoteSyncWrite, registry.ParseTagFilter([]string{"backend"}))
	require.NoError(testInstance, syncError)
	require.Equal(testInstance, engine.BulkResult{Attempted: 1}, result)
	require.Equal(testInstance, []addedRemote{{path: "api", name: "upstream", url: engineTestUpstreamURL}}, backend.added)
	require.Contains(testInstance, backend.live["api"], "local")
	require.Equal(testInstance, engineTestWebURL, backend.live["api"]["origin"].String())
	require.Zero(testInstance, store.saveCount)
}

func TestServiceSyncRequiresDirection(testInstance *testing.T) {
	harness := newServiceHarness(testInstance, newMemoryStore(), newFakeBackend(), nil)
	_, syncError := harness.service.Sync(context.Background(), 0, registry.TagFilter{})
	require.ErrorIs(testInstance, syncError, shared.ErrRemoteSyncDirectionRequired)
}

func TestServiceCloneAndAdd(testInstance *testing.T) {
	store := newMemoryStore()
	backend := newFakeBackend()
	harness := newServiceHarness(testInstance, store, backend, nil)

	trackedPath, cloneError := harness.service.CloneAndAdd(context.Background(), engineTestOriginURL, "", []string{"go", "backend"})
	require.NoError(testInstance, cloneError)
	require.Equal(testInstance, "api", trackedPath)
	require.Equal(testInstance, []string{"api"}, backend.cloned)

	repo, found := store.find("api")
	require.True(testInstance, found)
	require.Equal(testInstance, []string{"backend", "go"}, repo.Tags)
	require.Equal(testInstance, engineTestOriginURL, repo.Remotes["origin"].URL.String())

	explicitPath, explicitError := harness.service.CloneAndAdd(context.Background(), engineTestWebURL, "sites/web/", nil)
	require.NoError(testInstance, explicitError)
	require.Equal(testInstance, "sites/web", explicitPath)
	require.Equal(testInstance, []string{"api", "sites/web"}, repoPaths(store.repos))
}

func TestServiceCloneAndAddFailures(testInstance *testing.T) {
	testCases := []struct {
		name         string
		url          string
		prepare      func(backend *fakeBackend)
		expectedKind repoerrors.Kind
	}{
		{name: "underivable_name", url: "https://example.com/", expectedKind: repoerrors.KindState},
		{name: "invalid_url", url: "   ", expectedKind: repoerrors.KindState},
		{
			name: "clone_failure",
			url:  engineTestOriginURL,
			prepare: func(backend *fakeBackend) {
				backend.cloneErrors["api"] = repoerrors.NewGitError("api", "clone failed", errors.New("exit status 128"))
			},
			expectedKind: repoerrors.KindGit,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newMemoryStore()
			backend := newFakeBackend()
			if testCase.prepare != nil {
				testCase.prepare(backend)
			}
			harness := newServiceHarness(testInstance, store, backend, nil)

			_, cloneError := harness.service.CloneAndAdd(context.Background(), testCase.url, "", nil)
			require.Error(testInstance, cloneError)
			require.True(testInstance, repoerrors.IsKind(cloneError, testCase.expectedKind))
			require.Zero(testInstance, store.saveCount)
		})
	}

	_, derivationError := newServiceHarness(testInstance, newMemoryStore(), newFakeBackend(), nil).service.CloneAndAdd(context.Background(), "https://example.com/", "", nil)
	require.ErrorIs(testInstance, derivationError, gitrepo.ErrUnnameableURL)
}

func TestServiceMove(testInstance *testing.T) {
	store := newMemoryStore(
		trackedRepo("api", map[string]string{"origin": engineTestOriginURL}, "backend"),
		trackedRepo("web", map[string]string{"origin": engineTestWebURL}),
	)
	fileSystem := &stubFileSystem{existing: map[string]bool{"api": true, "web": true}}
	harness := newServiceHarness(testInstance, store, newFakeBackend(), func(dependencies *engine.Dependencies) {
		dependencies.FileSystem = fileSystem
	})

	require.NoError(testInstance, harness.service.Move(context.Background(), "api", "services/backend/"))
	require.Equal(testInstance, [][2]string{{"api", "services/backend"}}, fileSystem.renamedPairs)
	require.True(testInstance, fileSystem.existing["services"])

	moved, found := store.find("services/backend")
	require.True(testInstance, found)
	require.Equal(testInstance, "backend", moved.Name)
	require.Equal(testInstance, []string{"backend"}, moved.Tags)
	require.Equal(testInstance, engineTestOriginURL, moved.Remotes["origin"].URL.String())
	require.Equal(testInstance, []string{"services/backend", "web"}, repoPaths(store.repos))
	require.Equal(testInstance, []string{"MOVED: api → services/backend"}, outputLines(harness.output))
}

func TestServicePlanMoveLeavesStateUntouched(testInstance *testing.T) {
	store := newMemoryStore(trackedRepo("api", map[string]string{"origin": engineTestOriginURL}))
	fileSystem := &stubFileSystem{existing: map[string]bool{"api": true}}
	harness := newServiceHarness(testInstance, store, newFakeBackend(), func(dependencies *engine.Dependencies) {
		dependencies.FileSystem = fileSystem
	})

	require.NoError(testInstance, harness.service.PlanMove(context.Background(), "api", "services/api"))
	require.Empty(testInstance, fileSystem.renamedPairs)
	require.Zero(testInstance, store.saveCount)
	require.Equal(testInstance, []string{"api"}, repoPaths(store.repos))
	require.Equal(testInstance, []string{"PLAN-OK: api → services/api"}, outputLines(harness.output))
}

func TestServiceMoveFailures(testInstance *testing.T) {
	saveFailure := repoerrors.NewIOError(".gitopolis.toml", "unable to write state file", errors.New("read-only file system"))

	testCases := []struct {
		name            string
		oldPath         string
		newPath         string
		renameError     error
		saveError       error
		expectedKind    repoerrors.Kind
		expectedRenames [][2]string
	}{
		{name: "untracked_source", oldPath: "ghost", newPath: "elsewhere", expectedKind: repoerrors.KindState},
		{name: "tracked_destination", oldPath: "api", newPath: "web", expectedKind: repoerrors.KindState},
		{name: "rename_failure", oldPath: "api", newPath: "elsewhere", renameError: errors.New("device busy"), expectedKind: repoerrors.KindIO},
		{
			name:            "save_failure_after_rename",
			oldPath:         "api",
			newPath:         "elsewhere",
			saveError:       saveFailure,
			expectedKind:    repoerrors.KindIO,
			expectedRenames: [][2]string{{"api", "elsewhere"}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newMemoryStore(
				trackedRepo("api", map[string]string{"origin": engineTestOriginURL}),
				trackedRepo("web", map[string]string{"origin": engineTestWebURL}),
			)
			store.saveError = testCase.saveError
			fileSystem := &stubFileSystem{existing: map[string]bool{"api": true, "web": true}, renameError: testCase.renameError}
			harness := newServiceHarness(testInstance, store, newFakeBackend(), func(dependencies *engine.Dependencies) {
				dependencies.FileSystem = fileSystem
			})

			moveError := harness.service.Move(context.Background(), testCase.oldPath, testCase.newPath)
			require.Error(testInstance, moveError)
			require.True(testInstance, repoerrors.IsKind(moveError, testCase.expectedKind))
			if testCase.saveError != nil {
				require.ErrorIs(testInstance, moveError, testCase.saveError)
			}
			require.Equal(testInstance, testCase.expectedRenames, fileSystem.renamedPairs)
			require.Zero(testInstance, store.saveCount)
			require.Equal(testInstance, []string{"api", "web"}, repoPaths(store.repos))
		})
	}
}

func TestServiceExecRunsSequentiallyAndCountsFailures(testInstance *testing.T) {
	store := newMemoryStore(
		trackedRepo("api", map[string]string{"origin": engineTestOriginURL}, "go"),
		trackedRepo("docs", map[string]string{"origin": engineTestOriginURL}),
		trackedRepo("web", map[string]string{"origin": engineTestWebURL}, "go"),
	)
	commandExecutor := &recordingCommandExecutor{
		results: map[string]execshell.ExecutionResult{
			"api": {StandardOutput: "On branch main"},
			"web": {StandardError: "fatal: bad revision\n"},
		},
		failures: map[string]error{"web": errors.New("exit status 128")},
	}
	harness := newServiceHarness(testInstance, store, newFakeBackend(), func(dependencies *engine.Dependencies) {
		dependencies.CommandExecutor = commandExecutor
	})

	result, execError := harness.service.Exec(context.Background(), registry.ParseTagFilter([]string{"go"}), "git", []string{"status"})
	require.NoError(testInstance, execError)
	require.Equal(testInstance, 2, result.Attempted)
	require.Equal(testInstance, 1, result.Failed)

	require.Len(testInstance, commandExecutor.commands, 2)
	require.Equal(testInstance, "api", commandExecutor.commands[0].Details.WorkingDirectory)
	require.Equal(testInstance, []string{"status"}, commandExecutor.commands[1].Details.Arguments)
	require.Equal(testInstance, []string{"🏢 api> git status", "On branch main", "🏢 web> git status"}, outputLines(harness.output))
	require.Contains(testInstance, harness.errors.String(), "fatal: bad revision\n")
	require.Contains(testInstance, harness.errors.String(), "EXEC-FAILED: web (web: exit status 128)")
}

func TestServiceExecRequiresExecutor(testInstance *testing.T) {
	harness := newServiceHarness(testInstance, newMemoryStore(), newFakeBackend(), nil)
	_, execError := harness.service.Exec(context.Background(), registry.TagFilter{}, "git", nil)
	require.ErrorIs(testInstance, execError, engine.ErrCommandExecutorNotConfigured)
}
