package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rsenna/gitopolis/internal/registry"
)

// Format selects an output rendering.
type Format string

const (
	// Text prints one item per line, tab-separated in long mode.
	Text Format = "text"
	// Table prints a bordered table.
	Table Format = "table"
	// YAML prints a YAML document.
	YAML Format = "yaml"
	// JSON prints an indented JSON document.
	JSON Format = "json"
)

const (
	unknownFormatTemplateConstant = "%w %q (expected text, table, yaml, or json)"
	tagSeparatorConstant          = ","
	fieldSeparatorConstant        = "\t"
	jsonIndentConstant            = "  "
	yamlIndentConstant            = 2
	nameHeaderConstant            = "NAME"
	pathHeaderConstant            = "PATH"
	tagsHeaderConstant            = "TAGS"
	remotesHeaderConstant         = "REMOTES"
	tagHeaderConstant             = "TAG"
	reposHeaderConstant           = "REPOS"
	remoteLineTemplateConstant    = "%s %s"
	showNameTemplateConstant      = "name: %s\n"
	showPathTemplateConstant      = "path: %s\n"
	showTagsTemplateConstant      = "tags: %s\n"
	showRemoteTemplateConstant    = "remote %s: %s\n"
	tagRepoLineTemplateConstant   = "\t%s\n"
)

// ErrUnknownFormat indicates an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat resolves a format name case-insensitively. An empty name selects Text.
func ParseFormat(name string) (Format, error) {
	normalizedName := Format(strings.ToLower(strings.TrimSpace(name)))
	switch normalizedName {
	case "":
		return Text, nil
	case Text, Table, YAML, JSON:
		return normalizedName, nil
	default:
		return "", fmt.Errorf(unknownFormatTemplateConstant, ErrUnknownFormat, name)
	}
}

// Renderer writes registry contents to a writer in one Format.
type Renderer struct {
	writer io.Writer
	format Format
}

// NewRenderer constructs a Renderer. A nil writer discards output.
func NewRenderer(writer io.Writer, format Format) *Renderer {
	if writer == nil {
		writer = io.Discard
	}
	if len(format) == 0 {
		format = Text
	}
	return &Renderer{writer: writer, format: format}
}

// Repos renders a repo listing. In text mode the short form prints paths and the long form adds tags and the
// primary remote URL.
func (renderer *Renderer) Repos(repos []registry.Repo, long bool) error {
	switch renderer.format {
	case Table:
		tableWriter := renderer.newTable()
		tableWriter.AppendHeader(table.Row{nameHeaderConstant, pathHeaderConstant, tagsHeaderConstant, remotesHeaderConstant})
		for _, repo := range repos {
			tableWriter.AppendRow(table.Row{repo.Name, repo.Path, strings.Join(repo.Tags, tagSeparatorConstant), remoteLines(repo)})
		}
		return renderer.writeLine(tableWriter.Render())
	case YAML, JSON:
		views := make([]RepoView, 0, len(repos))
		for _, repo := range repos {
			views = append(views, NewRepoView(repo))
		}
		return renderer.encode(views)
	default:
		for _, repo := range repos {
			line := repo.Path
			if long {
				line = strings.Join([]string{repo.Path, strings.Join(repo.Tags, tagSeparatorConstant), primaryRemoteURL(repo)}, fieldSeparatorConstant)
			}
			if writeError := renderer.writeLine(line); writeError != nil {
				return writeError
			}
		}
		return nil
	}
}

// Repo renders a single repo in detail.
func (renderer *Renderer) Repo(repo registry.Repo) error {
	switch renderer.format {
	case Table:
		return renderer.Repos([]registry.Repo{repo}, true)
	case YAML, JSON:
		return renderer.encode(NewRepoView(repo))
	default:
		builder := &strings.Builder{}
		fmt.Fprintf(builder, showNameTemplateConstant, repo.Name)
		fmt.Fprintf(builder, showPathTemplateConstant, repo.Path)
		fmt.Fprintf(builder, showTagsTemplateConstant, strings.Join(repo.Tags, tagSeparatorConstant))
		for _, remoteName := range repo.RemoteNames() {
			fmt.Fprintf(builder, showRemoteTemplateConstant, remoteName, repo.Remotes[remoteName].URL)
		}
		_, writeError := io.WriteString(renderer.writer, builder.String())
		return writeError
	}
}

// Tags renders the tag list. The long form also lists the repos carrying each tag.
func (renderer *Renderer) Tags(tags []string, repos []registry.Repo, long bool) error {
	views := NewTagViews(tags, repos)
	switch renderer.format {
	case Table:
		tableWriter := renderer.newTable()
		tableWriter.AppendHeader(table.Row{tagHeaderConstant, reposHeaderConstant})
		for _, view := range views {
			tableWriter.AppendRow(table.Row{view.Tag, strings.Join(view.Repos, "\n")})
		}
		return renderer.writeLine(tableWriter.Render())
	case YAML, JSON:
		if !long {
			return renderer.encode(tags)
		}
		return renderer.encode(views)
	default:
		for _, view := range views {
			if writeError := renderer.writeLine(view.Tag); writeError != nil {
				return writeError
			}
			if !long {
				continue
			}
			for _, repoPath := range view.Repos {
				if _, writeError := fmt.Fprintf(renderer.writer, tagRepoLineTemplateConstant, repoPath); writeError != nil {
					return writeError
				}
			}
		}
		return nil
	}
}

func (renderer *Renderer) encode(value any) error {
	if renderer.format == JSON {
		encoder := json.NewEncoder(renderer.writer)
		encoder.SetIndent("", jsonIndentConstant)
		return encoder.Encode(value)
	}
	encoder := yaml.NewEncoder(renderer.writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

// newTable uses box-drawing borders on terminals and plain ASCII borders otherwise.
func (renderer *Renderer) newTable() table.Writer {
	tableWriter := table.NewWriter()
	if IsTerminal(renderer.writer) {
		tableWriter.SetStyle(table.StyleLight)
	} else {
		tableWriter.SetStyle(table.StyleDefault)
	}
	return tableWriter
}

func (renderer *Renderer) writeLine(line string) error {
	_, writeError := fmt.Fprintln(renderer.writer, line)
	return writeError
}

// IsTerminal reports whether writer is attached to a terminal.
func IsTerminal(writer io.Writer) bool {
	descriptor, hasDescriptor := writer.(interface{ Fd() uintptr })
	if !hasDescriptor {
		return false
	}
	return term.IsTerminal(int(descriptor.Fd()))
}

func remoteLines(repo registry.Repo) string {
	lines := make([]string, 0, len(repo.Remotes))
	for _, remoteName := range repo.RemoteNames() {
		lines = append(lines, fmt.Sprintf(remoteLineTemplateConstant, remoteName, repo.Remotes[remoteName].URL))
	}
	return strings.Join(lines, "\n")
}
