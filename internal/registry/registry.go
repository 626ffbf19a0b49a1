package registry

import (
	"errors"
	"sort"

	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
)

const repoNotFoundMessageConstant = "repo not found"

// ErrRepoNotFound indicates a repository name or path did not resolve.
var ErrRepoNotFound = errors.New(repoNotFoundMessageConstant)

// Registry is the ordered set of tracked Repos. At most one Repo exists per normalized path and Repos are kept in
// ascending path order.
type Registry struct {
	repos []Repo
}

// New builds a Registry from repos. Later duplicates of a path are dropped.
func New(repos ...Repo) *Registry {
	registry := &Registry{repos: make([]Repo, 0, len(repos))}
	for _, repo := range repos {
		registry.Add(repo)
	}
	return registry
}

// Repos returns a copy of the tracked Repos in canonical order.
func (registry *Registry) Repos() []Repo {
	repos := make([]Repo, 0, len(registry.repos))
	for _, repo := range registry.repos {
		repos = append(repos, repo.Clone())
	}
	return repos
}

// Len reports the number of tracked Repos.
func (registry *Registry) Len() int {
	return len(registry.repos)
}

// FindByPath returns the Repo at the normalized path. The pointer is valid until the next insertion or removal.
func (registry *Registry) FindByPath(path string) (*Repo, bool) {
	normalizedPath := NormalizePath(path)
	for index := range registry.repos {
		if registry.repos[index].Path == normalizedPath {
			return &registry.repos[index], true
		}
	}
	return nil, false
}

// FindByName returns the first Repo in canonical order carrying the name.
func (registry *Registry) FindByName(name string) (*Repo, bool) {
	for index := range registry.repos {
		if registry.repos[index].Name == name {
			return &registry.repos[index], true
		}
	}
	return nil, false
}

// Add inserts repo unless its path is already tracked, reporting whether it was inserted.
func (registry *Registry) Add(repo Repo) bool {
	repo = repo.Clone()
	repo.Path = NormalizePath(repo.Path)
	if _, exists := registry.FindByPath(repo.Path); exists {
		return false
	}
	if len(repo.Name) == 0 {
		repo.Name = DefaultName(repo.Path)
	}
	repo.Tags = SortTags(repo.Tags)

	registry.repos = append(registry.repos, repo)
	sort.SliceStable(registry.repos, func(leftIndex int, rightIndex int) bool {
		return registry.repos[leftIndex].Path < registry.repos[rightIndex].Path
	})
	return true
}

// RemoveByNames removes each Repo found by name. It returns, in call order, the names that removed a Repo and the
// names that matched nothing. A repeated name is skipped once its Repo is gone.
func (registry *Registry) RemoveByNames(names []string) (removedNames []string, skippedNames []string) {
	removedNames = []string{}
	skippedNames = []string{}
	for _, name := range names {
		index := registry.indexByName(name)
		if index == -1 {
			skippedNames = append(skippedNames, name)
			continue
		}
		registry.removeAt(index)
		removedNames = append(removedNames, name)
	}
	return removedNames, skippedNames
}

// RemoveByPath removes the Repo at the normalized path, reporting whether one existed.
func (registry *Registry) RemoveByPath(path string) bool {
	normalizedPath := NormalizePath(path)
	for index := range registry.repos {
		if registry.repos[index].Path == normalizedPath {
			registry.removeAt(index)
			return true
		}
	}
	return false
}

// AddTag tags every named Repo. An unresolved name fails the call before any Repo changes.
func (registry *Registry) AddTag(tag string, names []string) error {
	return registry.applyTag(names, func(repo *Repo) { repo.AddTag(tag) })
}

// RemoveTag untags every named Repo. An unresolved name fails the call before any Repo changes.
func (registry *Registry) RemoveTag(tag string, names []string) error {
	return registry.applyTag(names, func(repo *Repo) { repo.RemoveTag(tag) })
}

// List returns the Repos matching filter ordered by name, case-insensitively.
func (registry *Registry) List(filter TagFilter) []Repo {
	matchingRepos := []Repo{}
	for _, repo := range registry.repos {
		if filter.Matches(repo.Tags) {
			matchingRepos = append(matchingRepos, repo.Clone())
		}
	}
	sort.SliceStable(matchingRepos, func(leftIndex int, rightIndex int) bool {
		leftName := matchingRepos[leftIndex].Name
		rightName := matchingRepos[rightIndex].Name
		if leftName != rightName {
			return lessFold(leftName, rightName)
		}
		return matchingRepos[leftIndex].Path < matchingRepos[rightIndex].Path
	})
	return matchingRepos
}

// Tags returns every tag in use, sorted and de-duplicated.
func (registry *Registry) Tags() []string {
	allTags := []string{}
	for _, repo := range registry.repos {
		allTags = append(allTags, repo.Tags...)
	}
	return SortTags(allTags)
}

func (registry *Registry) applyTag(names []string, action func(repo *Repo)) error {
	indexes := make([]int, 0, len(names))
	for _, name := range names {
		index := registry.indexByName(name)
		if index == -1 {
			return repoerrors.NewStateError(name, "", ErrRepoNotFound)
		}
		indexes = append(indexes, index)
	}
	for _, index := range indexes {
		action(&registry.repos[index])
	}
	return nil
}

func (registry *Registry) indexByName(name string) int {
	for index := range registry.repos {
		if registry.repos[index].Name == name {
			return index
		}
	}
	return -1
}

func (registry *Registry) removeAt(index int) {
	registry.repos = append(registry.repos[:index], registry.repos[index+1:]...)
}
