package format

import (
	"github.com/rsenna/gitopolis/internal/registry"
)

// RemoteView is the exported shape of a remote.
type RemoteView struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// RepoView is the exported shape of a repo.
type RepoView struct {
	Name    string       `json:"name" yaml:"name"`
	Path    string       `json:"path" yaml:"path"`
	Tags    []string     `json:"tags" yaml:"tags"`
	Remotes []RemoteView `json:"remotes" yaml:"remotes"`
}

// TagView groups the repos carrying a tag.
type TagView struct {
	Tag   string   `json:"tag" yaml:"tag"`
	Repos []string `json:"repos" yaml:"repos"`
}

// NewRepoView converts a repo, ordering remotes by name.
func NewRepoView(repo registry.Repo) RepoView {
	view := RepoView{
		Name:    repo.Name,
		Path:    repo.Path,
		Tags:    append([]string{}, repo.Tags...),
		Remotes: make([]RemoteView, 0, len(repo.Remotes)),
	}
	for _, remoteName := range repo.RemoteNames() {
		view.Remotes = append(view.Remotes, RemoteView{Name: remoteName, URL: repo.Remotes[remoteName].URL.String()})
	}
	return view
}

// NewTagViews lists, for each tag, the paths of the repos carrying it.
func NewTagViews(tags []string, repos []registry.Repo) []TagView {
	views := make([]TagView, 0, len(tags))
	for _, tag := range tags {
		view := TagView{Tag: tag, Repos: []string{}}
		for _, repo := range repos {
			if repo.HasTag(tag) {
				view.Repos = append(view.Repos, repo.Path)
			}
		}
		views = append(views, view)
	}
	return views
}

func primaryRemoteURL(repo registry.Repo) string {
	primaryRemote, found := repo.PrimaryRemote()
	if !found {
		return ""
	}
	return primaryRemote.URL.String()
}
