package registry

import (
	"sort"
	"strings"

	"github.com/rsenna/gitopolis/internal/gitrepo"
)

// PrimaryRemoteNameConstant is the remote preferred when cloning.
const PrimaryRemoteNameConstant = "origin"

// Remote is a named remote URL of a Repo.
type Remote struct {
	Name string
	URL  gitrepo.RemoteURL
}

// Repo is a tracked working copy.
type Repo struct {
	Path    string
	Name    string
	Tags    []string
	Remotes map[string]Remote
}

// NewRepo builds a Repo at path named after its final segment.
func NewRepo(path string, remotes map[string]gitrepo.RemoteURL) Repo {
	normalizedPath := NormalizePath(path)
	repo := Repo{
		Path:    normalizedPath,
		Name:    DefaultName(normalizedPath),
		Tags:    []string{},
		Remotes: map[string]Remote{},
	}
	repo.ReplaceRemotes(remotes)
	return repo
}

// HasTag reports whether the tag is present.
func (repo Repo) HasTag(tag string) bool {
	for _, existingTag := range repo.Tags {
		if existingTag == tag {
			return true
		}
	}
	return false
}

// AddTag inserts a tag and restores tag ordering. Adding a present tag is a no-op.
func (repo *Repo) AddTag(tag string) {
	if repo.HasTag(tag) {
		return
	}
	repo.Tags = SortTags(append(repo.Tags, tag))
}

// RemoveTag deletes a tag when present.
func (repo *Repo) RemoveTag(tag string) {
	remainingTags := make([]string, 0, len(repo.Tags))
	for _, existingTag := range repo.Tags {
		if existingTag != tag {
			remainingTags = append(remainingTags, existingTag)
		}
	}
	repo.Tags = remainingTags
}

// AddRemote inserts or replaces a remote keyed by its name.
func (repo *Repo) AddRemote(remote Remote) {
	if repo.Remotes == nil {
		repo.Remotes = map[string]Remote{}
	}
	repo.Remotes[remote.Name] = remote
}

// ReplaceRemotes discards every declared remote in favor of the supplied set.
func (repo *Repo) ReplaceRemotes(remotes map[string]gitrepo.RemoteURL) {
	repo.Remotes = make(map[string]Remote, len(remotes))
	for remoteName, remoteURL := range remotes {
		repo.Remotes[remoteName] = Remote{Name: remoteName, URL: remoteURL}
	}
}

// RemoteNames lists remote names in ascending order.
func (repo Repo) RemoteNames() []string {
	remoteNames := make([]string, 0, len(repo.Remotes))
	for remoteName := range repo.Remotes {
		remoteNames = append(remoteNames, remoteName)
	}
	sort.Strings(remoteNames)
	return remoteNames
}

// PrimaryRemote returns origin when declared, otherwise the first remote by name.
func (repo Repo) PrimaryRemote() (Remote, bool) {
	if primaryRemote, exists := repo.Remotes[PrimaryRemoteNameConstant]; exists {
		return primaryRemote, true
	}
	remoteNames := repo.RemoteNames()
	if len(remoteNames) == 0 {
		return Remote{}, false
	}
	return repo.Remotes[remoteNames[0]], true
}

// Clone returns a deep copy.
func (repo Repo) Clone() Repo {
	clonedRepo := Repo{Path: repo.Path, Name: repo.Name}
	clonedRepo.Tags = append([]string{}, repo.Tags...)
	clonedRepo.Remotes = make(map[string]Remote, len(repo.Remotes))
	for remoteName, remote := range repo.Remotes {
		clonedRepo.Remotes[remoteName] = remote
	}
	return clonedRepo
}

// SortTags de-duplicates tags and orders them case-insensitively, breaking ties by byte order.
func SortTags(tags []string) []string {
	seenTags := make(map[string]struct{}, len(tags))
	uniqueTags := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, seen := seenTags[tag]; seen {
			continue
		}
		seenTags[tag] = struct{}{}
		uniqueTags = append(uniqueTags, tag)
	}
	sort.Slice(uniqueTags, func(leftIndex int, rightIndex int) bool {
		return lessFold(uniqueTags[leftIndex], uniqueTags[rightIndex])
	})
	return uniqueTags
}

func lessFold(left string, right string) bool {
	foldedLeft := strings.ToLower(left)
	foldedRight := strings.ToLower(right)
	if foldedLeft != foldedRight {
		return foldedLeft < foldedRight
	}
	return left < right
}
