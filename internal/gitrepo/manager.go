package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rsenna/gitopolis/internal/execshell"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
)

const (
	gitRevParseCommandConstant                = "rev-parse"
	gitShowPrefixFlagConstant                 = "--show-prefix"
	gitRemoteCommandConstant                  = "remote"
	gitRemoteGetURLCommandConstant            = "get-url"
	gitRemoteAddCommandConstant               = "add"
	gitCloneCommandConstant                   = "clone"
	gitEndOfOptionsConstant                   = "--"
	repositoryOpenFailureMessageConstant      = "unable to open repository"
	repositoryRootMismatchTemplateConstant    = "%s is inside a working copy at prefix %q, not at its root"
	remoteListFailureMessageConstant          = "unable to list remotes"
	remoteReadFailureMessageConstant          = "unable to read remote url"
	remoteURLInvalidMessageConstant           = "remote url is invalid"
	remoteAddFailureMessageConstant           = "unable to add remote"
	cloneFailureMessageConstant               = "clone failed"
	clonePathInspectionFailureMessageConstant = "unable to inspect clone destination"
	executorNotConfiguredMessageConstant      = "git executor not configured"
	pathCheckerNotConfiguredMessageConstant   = "path checker not configured"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrPathCheckerNotConfigured indicates the manager was constructed without a path checker.
var ErrPathCheckerNotConfigured = errors.New(pathCheckerNotConfiguredMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PathChecker reports filesystem metadata.
type PathChecker interface {
	Stat(path string) (fs.FileInfo, error)
}

// RepositoryManager reads and configures remotes of local working copies and clones new ones by invoking git.
type RepositoryManager struct {
	executor    GitExecutor
	pathChecker PathChecker
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor, pathChecker PathChecker) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if pathChecker == nil {
		return nil, ErrPathCheckerNotConfigured
	}
	return &RepositoryManager{executor: executor, pathChecker: pathChecker}, nil
}

// ReadAllRemotes returns every remote configured in the working copy at repositoryPath keyed by name.
func (manager *RepositoryManager) ReadAllRemotes(executionContext context.Context, repositoryPath string) (map[string]RemoteURL, error) {
	if openError := manager.open(executionContext, repositoryPath); openError != nil {
		return nil, openError
	}

	listResult, listError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteCommandConstant},
		WorkingDirectory: repositoryPath,
	})
	if listError != nil {
		return nil, repoerrors.NewGitError(repositoryPath, remoteListFailureMessageConstant, listError)
	}

	remoteNames := parseRemoteNames(listResult.StandardOutput)
	remotes := make(map[string]RemoteURL, len(remoteNames))
	for _, remoteName := range remoteNames {
		remoteURL, readError := manager.readRemoteURL(executionContext, repositoryPath, remoteName)
		if readError != nil {
			return nil, readError
		}
		remotes[remoteName] = remoteURL
	}
	return remotes, nil
}

// ReadRemoteURL returns the URL of a single named remote.
func (manager *RepositoryManager) ReadRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (RemoteURL, error) {
	if openError := manager.open(executionContext, repositoryPath); openError != nil {
		return RemoteURL{}, openError
	}
	return manager.readRemoteURL(executionContext, repositoryPath, remoteName)
}

// AddRemote configures a new remote in the working copy.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL RemoteURL) error {
	if openError := manager.open(executionContext, repositoryPath); openError != nil {
		return openError
	}

	_, addError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteCommandConstant, gitRemoteAddCommandConstant, remoteName, remoteURL.String()},
		WorkingDirectory: repositoryPath,
	})
	if addError != nil {
		return repoerrors.NewGitError(repositoryPath, remoteAddFailureMessageConstant+" "+remoteName, addError)
	}
	return nil
}

// Clone clones remoteURL into repositoryPath. An existing destination is left untouched and reported as success.
func (manager *RepositoryManager) Clone(executionContext context.Context, repositoryPath string, remoteURL RemoteURL) error {
	_, statError := manager.pathChecker.Stat(repositoryPath)
	if statError == nil {
		return nil
	}
	if !errors.Is(statError, fs.ErrNotExist) {
		return repoerrors.NewIOError(repositoryPath, clonePathInspectionFailureMessageConstant, statError)
	}

	_, cloneError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneCommandConstant, gitEndOfOptionsConstant, remoteURL.String(), repositoryPath},
	})
	if cloneError != nil {
		return repoerrors.NewGitError(repositoryPath, cloneFailureMessageConstant, cloneError)
	}
	return nil
}

// open accepts only the root of a working copy. A subdirectory of an enclosing repository reports a non-empty prefix.
func (manager *RepositoryManager) open(executionContext context.Context, repositoryPath string) error {
	prefixResult, openError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseCommandConstant, gitShowPrefixFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if openError != nil {
		return repoerrors.NewGitError(repositoryPath, repositoryOpenFailureMessageConstant, openError)
	}
	if prefix := strings.TrimSpace(prefixResult.StandardOutput); len(prefix) > 0 {
		return repoerrors.NewGitError(repositoryPath, repositoryOpenFailureMessageConstant, fmt.Errorf(repositoryRootMismatchTemplateConstant, repositoryPath, prefix))
	}
	return nil
}

func (manager *RepositoryManager) readRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (RemoteURL, error) {
	readResult, readError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteCommandConstant, gitRemoteGetURLCommandConstant, remoteName},
		WorkingDirectory: repositoryPath,
	})
	if readError != nil {
		return RemoteURL{}, repoerrors.NewRemoteError(remoteName, remoteReadFailureMessageConstant, readError)
	}

	remoteURL, parseError := ParseRemoteURL(readResult.StandardOutput)
	if parseError != nil {
		return RemoteURL{}, repoerrors.NewRemoteError(remoteName, remoteURLInvalidMessageConstant, parseError)
	}
	return remoteURL, nil
}

func parseRemoteNames(output string) []string {
	remoteNames := []string{}
	for _, line := range strings.Split(output, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		remoteNames = append(remoteNames, trimmedLine)
	}
	sort.Strings(remoteNames)
	return remoteNames
}
