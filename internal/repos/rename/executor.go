package rename

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
	"github.com/rsenna/gitopolis/internal/repos/shared"
)

const (
	planReadyMessage                  = "PLAN-OK: %s → %s\n"
	successMessage                    = "MOVED: %s → %s\n"
	sourceMissingMessageConstant      = "source directory does not exist"
	sourceInspectionMessageConstant   = "unable to inspect source directory"
	samePathMessageConstant           = "source and destination are the same"
	targetExistsMessageConstant       = "destination already exists"
	parentNotDirectoryMessageConstant = "destination parent is not a directory"
	parentCreationMessageConstant     = "unable to create destination parent"
	renameFailureMessageConstant      = "unable to move directory"
	caseOnlyRenameTemplate            = "%s.move.%d"
	caseOnlyRenameAttemptsConstant    = 5
	parentDirectoryPermissionConstant = fs.FileMode(0o755)
)

// ErrFileSystemNotConfigured indicates the executor has no filesystem collaborator.
var ErrFileSystemNotConfigured = errors.New("filesystem not configured")

// Options configures a directory move.
type Options struct {
	SourcePath              string
	TargetPath              string
	DryRun                  bool
	EnsureParentDirectories bool
}

// Dependencies supplies collaborators required to move working copies on disk.
type Dependencies struct {
	FileSystem shared.FileSystem
	Output     io.Writer
}

// Executor moves working copy directories.
type Executor struct {
	dependencies Dependencies
}

// NewExecutor constructs an Executor from the provided dependencies.
func NewExecutor(dependencies Dependencies) *Executor {
	return &Executor{dependencies: dependencies}
}

// Execute moves options.SourcePath to options.TargetPath. Failures are IO errors naming the path involved.
func (executor *Executor) Execute(options Options) error {
	if executor.dependencies.FileSystem == nil {
		return ErrFileSystemNotConfigured
	}

	sourcePath := filepath.Clean(options.SourcePath)
	targetPath := filepath.Clean(options.TargetPath)

	if sourcePath == targetPath {
		return repoerrors.NewIOError(sourcePath, samePathMessageConstant, nil)
	}

	if _, statError := executor.dependencies.FileSystem.Stat(sourcePath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return repoerrors.NewIOError(sourcePath, sourceMissingMessageConstant, statError)
		}
		return repoerrors.NewIOError(sourcePath, sourceInspectionMessageConstant, statError)
	}

	caseOnlyRename := isCaseOnlyRename(sourcePath, targetPath)
	if !caseOnlyRename && executor.pathExists(targetPath) {
		return repoerrors.NewIOError(targetPath, targetExistsMessageConstant, fs.ErrExist)
	}

	if options.DryRun {
		executor.printfOutput(planReadyMessage, sourcePath, targetPath)
		return nil
	}

	if options.EnsureParentDirectories {
		if parentError := executor.ensureParentDirectory(targetPath); parentError != nil {
			return parentError
		}
	}

	if renameError := executor.performRename(sourcePath, targetPath, caseOnlyRename); renameError != nil {
		return repoerrors.NewIOError(sourcePath, renameFailureMessageConstant, renameError)
	}

	executor.printfOutput(successMessage, sourcePath, targetPath)
	return nil
}

func (executor *Executor) ensureParentDirectory(targetPath string) error {
	parentPath := filepath.Dir(targetPath)
	info, statError := executor.dependencies.FileSystem.Stat(parentPath)
	if statError == nil {
		if !info.IsDir() {
			return repoerrors.NewIOError(parentPath, parentNotDirectoryMessageConstant, nil)
		}
		return nil
	}

	if creationError := executor.dependencies.FileSystem.MkdirAll(parentPath, parentDirectoryPermissionConstant); creationError != nil {
		return repoerrors.NewIOError(parentPath, parentCreationMessageConstant, creationError)
	}
	return nil
}

// performRename falls back to a two-step move for case-only renames on case-insensitive filesystems.
func (executor *Executor) performRename(sourcePath string, targetPath string, caseOnlyRename bool) error {
	renameError := executor.dependencies.FileSystem.Rename(sourcePath, targetPath)
	if renameError == nil || !caseOnlyRename {
		return renameError
	}

	for attempt := 0; attempt < caseOnlyRenameAttemptsConstant; attempt++ {
		intermediatePath := fmt.Sprintf(caseOnlyRenameTemplate, sourcePath, attempt)
		if executor.pathExists(intermediatePath) {
			continue
		}
		if renameError = executor.dependencies.FileSystem.Rename(sourcePath, intermediatePath); renameError != nil {
			continue
		}
		if renameError = executor.dependencies.FileSystem.Rename(intermediatePath, targetPath); renameError == nil {
			return nil
		}
		_ = executor.dependencies.FileSystem.Rename(intermediatePath, sourcePath)
	}
	return renameError
}

func (executor *Executor) pathExists(path string) bool {
	_, statError := executor.dependencies.FileSystem.Stat(path)
	return statError == nil
}

func (executor *Executor) printfOutput(format string, arguments ...any) {
	if executor.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(executor.dependencies.Output, format, arguments...)
}

func isCaseOnlyRename(oldPath string, newPath string) bool {
	return strings.EqualFold(oldPath, newPath) && oldPath != newPath
}
