package add

import (
	"context"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/exclude"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/materialize"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// AddOptions defines the options for the Add command
type AddOptions struct {
	Paths *paths.Paths
	// Git defaults to the git binary on PATH
	Git *git.Client

	// Location is a local path or a git URL
	Location string
	// Name defaults to the directory name or the URL's last segment
	Name        string
	Description string
	GitMode     *types.GitMode
	GitRef      string
	NoCache     *bool
	PreInit     string
	PostInit    string
	Exclude     []string
	WriteMode   *types.WriteMode
}

// AddResult is the registered template
type AddResult struct {
	Template types.Template
	// Cached is set when a URL template was cloned into the cache
	Cached bool
}

// Add registers a template. Local paths are stored canonicalized; URL
// templates are cloned into the cache right away unless no-cache is set,
// so a bad URL fails here rather than at init time.
func Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	log := logging.GetLogger("commands.add")
	log.Debug().Str("command", "Add").Str("location", opts.Location).Msg("Executing command")

	if opts.Location == "" {
		return nil, errors.New(errors.ErrInvalidInput, "a template path or URL is required")
	}
	if _, err := exclude.Compile(opts.Exclude); err != nil {
		return nil, err
	}

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}

	tmpl := types.Template{
		Name:        opts.Name,
		Description: opts.Description,
		GitMode:     opts.GitMode,
		GitRef:      opts.GitRef,
		NoCache:     opts.NoCache,
		PreInit:     opts.PreInit,
		PostInit:    opts.PostInit,
		Exclude:     opts.Exclude,
		WriteMode:   opts.WriteMode,
	}

	isURL := paths.IsGitURL(opts.Location)
	if isURL {
		tmpl.Location = opts.Location
		if tmpl.Name == "" {
			tmpl.Name = paths.RepoNameFromURL(opts.Location)
		}
	} else {
		canonical, err := CanonicalLocation(opts.Location)
		if err != nil {
			return nil, err
		}
		tmpl.Location = canonical
		if tmpl.Name == "" {
			tmpl.Name = filepath.Base(canonical)
		}
	}
	if tmpl.Name == "" || tmpl.Name == string(filepath.Separator) {
		tmpl.Name = "template"
	}

	if reg.Has(tmpl.Name) {
		return nil, errors.TemplateExists(tmpl.Name)
	}

	result := &AddResult{}
	if isURL && (opts.NoCache == nil || !*opts.NoCache) {
		client := opts.Git
		if client == nil {
			client = git.New(nil)
		}
		resolver := materialize.NewSourceResolver(opts.Paths, client)
		if _, _, err := resolver.EnsureCached(ctx, opts.Location); err != nil {
			return nil, err
		}
		result.Cached = true
	}

	if err := reg.Add(tmpl); err != nil {
		return nil, err
	}
	if err := reg.Save(); err != nil {
		return nil, err
	}

	result.Template = tmpl
	log.Info().Str("command", "Add").Str("name", tmpl.Name).Str("location", tmpl.Location).Msg("Command finished")
	return result, nil
}

// CanonicalLocation resolves a local template path to an absolute path
// with symlinks resolved. The path must exist.
func CanonicalLocation(location string) (string, error) {
	abs, err := filepath.Abs(paths.ExpandHome(location))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %s", location)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.TemplatePathMissing(location)
	}
	return canonical, nil
}
