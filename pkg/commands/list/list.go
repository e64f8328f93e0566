package list

import (
	"context"
	"fmt"
	"os"

	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// Kind groups statuses by how alarming they are
type Kind int

const (
	// KindNormal is a healthy git-backed template
	KindNormal Kind = iota
	// KindNoGit is a directory without history
	KindNoGit
	// KindInfo carries extra information, such as a pinned ref
	KindInfo
	// KindProblem is a template init would fail or produce nothing from
	KindProblem
	// KindGone is a template whose location no longer exists
	KindGone
)

// String returns a short label for the kind
func (k Kind) String() string {
	switch k {
	case KindNoGit:
		return "no-git"
	case KindInfo:
		return "info"
	case KindProblem:
		return "problem"
	case KindGone:
		return "gone"
	default:
		return "normal"
	}
}

// MarshalText renders the kind by its label
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one row of the listing
type Entry struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
}

// ListOptions defines the options for the List command
type ListOptions struct {
	Paths *paths.Paths
	// Git defaults to the git binary on PATH
	Git *git.Client
}

// ListResult holds the entries sorted by name
type ListResult struct {
	Entries []Entry
}

// List classifies every registered template. It never fails on a broken
// template; the problem shows up in the entry's status instead.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "List").Msg("Executing command")

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}
	client := opts.Git
	if client == nil {
		client = git.New(nil)
	}

	result := &ListResult{}
	for _, tmpl := range reg.Sorted() {
		status, kind := classify(ctx, client, opts.Paths, tmpl)
		result.Entries = append(result.Entries, Entry{
			Name:        tmpl.Name,
			Status:      status,
			Kind:        kind,
			Description: tmpl.Description,
			Location:    tmpl.Location,
		})
	}

	log.Info().Str("command", "List").Int("templates", len(result.Entries)).Msg("Command finished")
	return result, nil
}

func classify(ctx context.Context, client *git.Client, p *paths.Paths, tmpl types.Template) (string, Kind) {
	isURL := paths.IsGitURL(tmpl.Location)
	location := paths.ExpandHome(tmpl.Location)

	var isLink, isFile, isDir bool
	if !isURL {
		if lst, err := os.Lstat(location); err == nil && lst.Mode()&os.ModeSymlink != 0 {
			isLink = true
		}
		st, err := os.Stat(location)
		switch {
		case err != nil && isLink:
			return "(symlink broken)", KindGone
		case err != nil:
			return "(folder missing)", KindGone
		case st.IsDir():
			isDir = true
		default:
			isFile = true
		}
		if isDir {
			if empty, err := paths.IsEmptyDir(location); err == nil && empty {
				return "(folder empty)", KindProblem
			}
		}
	}

	if tmpl.GitRef != "" {
		return refStatus(ctx, client, p, tmpl, isURL, location)
	}

	switch {
	case isFile:
		return "(single file)", KindInfo
	case isLink:
		return "(symlink)", KindInfo
	case isDir && !paths.IsGitRepo(location):
		return "(no git)", KindNoGit
	}
	return "", KindNormal
}

func refStatus(ctx context.Context, client *git.Client, p *paths.Paths, tmpl types.Template, isURL bool, location string) (string, Kind) {
	ref := tmpl.GitRef

	repo := ""
	switch {
	case isURL && paths.IsGitRepo(p.RepoCacheDir(tmpl.Location)):
		repo = p.RepoCacheDir(tmpl.Location)
	case !isURL && paths.IsGitRepo(location):
		repo = location
	}
	if repo == "" {
		return fmt.Sprintf("(git ref %s)", ref), KindInfo
	}
	if !client.RefExists(ctx, repo, ref) {
		return fmt.Sprintf("(git %s missing)", ref), KindProblem
	}

	switch client.ClassifyRef(ctx, repo, ref) {
	case git.RefBranch:
		return fmt.Sprintf("(in git branch %s)", ref), KindInfo
	case git.RefTag:
		return fmt.Sprintf("(at git tag %s)", ref), KindInfo
	default:
		return fmt.Sprintf("(at git commit %s)", ref), KindInfo
	}
}
