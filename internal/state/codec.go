package state

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rsenna/gitopolis/internal/gitrepo"
	"github.com/rsenna/gitopolis/internal/registry"
	repoerrors "github.com/rsenna/gitopolis/internal/repos/errors"
)

const (
	documentDecodeFailureMessageConstant = "malformed state document"
	documentEncodeFailureMessageConstant = "unable to encode state document"
	missingPathMessageConstant           = "repo entry has no path"
	invalidRemoteURLMessageConstant      = "invalid remote url in state"
	remoteSubjectSeparatorConstant       = ":"
)

type stateDocument struct {
	Repos []repoRecord `toml:"repos"`
}

type repoRecord struct {
	Path    string                  `toml:"path"`
	Name    string                  `toml:"name"`
	Tags    []string                `toml:"tags"`
	Remotes map[string]remoteRecord `toml:"remotes"`
}

type remoteRecord struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Codec converts between the TOML state document and a Registry.
type Codec struct{}

// Decode parses a state document. A document without repos yields an empty Registry and entries missing a name
// receive the final path segment.
func (Codec) Decode(document []byte) (*registry.Registry, error) {
	var decoded stateDocument
	if decodeError := toml.Unmarshal(document, &decoded); decodeError != nil {
		return nil, repoerrors.NewStateError("", documentDecodeFailureMessageConstant, decodeError)
	}

	repos := make([]registry.Repo, 0, len(decoded.Repos))
	for _, record := range decoded.Repos {
		repo, conversionError := record.toRepo()
		if conversionError != nil {
			return nil, conversionError
		}
		repos = append(repos, repo)
	}
	return registry.New(repos...), nil
}

// Encode renders the Registry as a state document with repos in canonical order.
func (Codec) Encode(reg *registry.Registry) ([]byte, error) {
	document := stateDocument{Repos: []repoRecord{}}
	for _, repo := range reg.Repos() {
		document.Repos = append(document.Repos, newRepoRecord(repo))
	}

	encoded, encodeError := toml.Marshal(document)
	if encodeError != nil {
		return nil, repoerrors.NewStateError("", documentEncodeFailureMessageConstant, encodeError)
	}
	return encoded, nil
}

func (record repoRecord) toRepo() (registry.Repo, error) {
	normalizedPath := registry.NormalizePath(record.Path)
	if len(normalizedPath) == 0 {
		return registry.Repo{}, repoerrors.NewStateError(record.Name, missingPathMessageConstant, nil)
	}

	repo := registry.Repo{
		Path:    normalizedPath,
		Name:    strings.TrimSpace(record.Name),
		Tags:    append([]string{}, record.Tags...),
		Remotes: make(map[string]registry.Remote, len(record.Remotes)),
	}
	if len(repo.Name) == 0 {
		repo.Name = registry.DefaultName(normalizedPath)
	}

	for remoteKey, remote := range record.Remotes {
		remoteName := remote.Name
		if len(remoteName) == 0 {
			remoteName = remoteKey
		}
		remoteURL, parseError := gitrepo.ParseRemoteURL(remote.URL)
		if parseError != nil {
			return registry.Repo{}, repoerrors.NewStateError(normalizedPath+remoteSubjectSeparatorConstant+remoteName, invalidRemoteURLMessageConstant, parseError)
		}
		repo.Remotes[remoteName] = registry.Remote{Name: remoteName, URL: remoteURL}
	}
	return repo, nil
}

func newRepoRecord(repo registry.Repo) repoRecord {
	record := repoRecord{
		Path:    repo.Path,
		Name:    repo.Name,
		Tags:    append([]string{}, repo.Tags...),
		Remotes: make(map[string]remoteRecord, len(repo.Remotes)),
	}
	for remoteName, remote := range repo.Remotes {
		record.Remotes[remoteName] = remoteRecord{Name: remote.Name, URL: remote.URL.String()}
	}
	return record
}
