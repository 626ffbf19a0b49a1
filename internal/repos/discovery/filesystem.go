package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
)

const gitMetadataEntryNameConstant = ".git"

// FilesystemRepositoryDiscoverer locates working copies on disk.
type FilesystemRepositoryDiscoverer struct {
	excludedDirectoryNames map[string]struct{}
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer that never descends into the named directories.
func NewFilesystemRepositoryDiscoverer(excludedDirectoryNames ...string) *FilesystemRepositoryDiscoverer {
	excluded := make(map[string]struct{}, len(excludedDirectoryNames))
	for _, directoryName := range excludedDirectoryNames {
		excluded[directoryName] = struct{}{}
	}
	return &FilesystemRepositoryDiscoverer{excludedDirectoryNames: excluded}
}

// DiscoverRepositories walks the roots and returns every directory holding a .git entry, relative to the root
// spelling the caller used. Unreadable directories are skipped.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	repositories := []string{}

	for _, root := range roots {
		walkError := filepath.WalkDir(filepath.Clean(root), func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return nil
			}

			entryName := directoryEntry.Name()
			if directoryEntry.IsDir() && entryName != gitMetadataEntryNameConstant {
				if _, excluded := discoverer.excludedDirectoryNames[entryName]; excluded {
					return fs.SkipDir
				}
				return nil
			}
			if entryName != gitMetadataEntryNameConstant {
				return nil
			}

			repositoryPath := filepath.Dir(path)
			if _, alreadySeen := seen[repositoryPath]; !alreadySeen {
				seen[repositoryPath] = struct{}{}
				repositories = append(repositories, repositoryPath)
			}

			if directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositories)
	return repositories, nil
}
