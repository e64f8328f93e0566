package materialize

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/rs/zerolog"
)

// Source is a local directory holding a template's files for one run
type Source struct {
	// Dir is the directory to copy or clone from
	Dir string
	// Location is the template's registered location
	Location string
	// IsURL is set when Location is a git URL
	IsURL bool

	cleanup func()
}

// Cleanup releases a temporary clone. It is safe to call more than once.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// SourceResolver finds or fetches template sources
type SourceResolver struct {
	paths  *paths.Paths
	git    *git.Client
	logger zerolog.Logger
}

// NewSourceResolver creates a resolver caching URL templates under p
func NewSourceResolver(p *paths.Paths, client *git.Client) *SourceResolver {
	return &SourceResolver{paths: p, git: client, logger: logging.GetLogger("source")}
}

// Resolve returns the directory to materialize tmpl from.
//
// URL templates are cloned into the repo cache on first use and refreshed
// unless update-on-init is never; with no-cache they are cloned into a
// temporary directory removed by Cleanup. Local templates are refreshed
// only when update-on-init is always and no ref is pinned. A pinned ref is
// checked out in every case.
func (r *SourceResolver) Resolve(ctx context.Context, tmpl types.Template, opts options.ResolvedOptions) (*Source, error) {
	src := &Source{Location: tmpl.Location, IsURL: paths.IsGitURL(tmpl.Location)}

	switch {
	case src.IsURL && opts.NoCache:
		tmp, err := os.MkdirTemp("", "templative-")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDirCreate, "failed to create temporary directory")
		}
		src.Dir = tmp
		src.cleanup = func() {
			if err := os.RemoveAll(tmp); err != nil {
				r.logger.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary clone")
			}
		}
		r.logger.Info().Str("url", tmpl.Location).Msg("Cloning template without cache")
		if err := r.git.Clone(ctx, tmpl.Location, tmp); err != nil {
			src.Cleanup()
			return nil, errors.Wrapf(err, errors.ErrGitCommand, "failed to clone %s", tmpl.Location)
		}

	case src.IsURL:
		dir, fresh, err := r.EnsureCached(ctx, tmpl.Location)
		if err != nil {
			return nil, err
		}
		src.Dir = dir
		if !fresh && opts.UpdateOnInit != types.UpdateNever {
			r.Refresh(ctx, dir)
		}

	default:
		src.Dir = filepath.Clean(paths.ExpandHome(tmpl.Location))
		if opts.GitRef == "" && opts.UpdateOnInit == types.UpdateAlways && paths.IsGitRepo(src.Dir) {
			r.Refresh(ctx, src.Dir)
		}
	}

	if opts.GitRef != "" {
		if err := r.git.Checkout(ctx, src.Dir, opts.GitRef); err != nil {
			src.Cleanup()
			return nil, errors.Wrapf(err, errors.ErrGitCommand, "failed to check out %s in %s", opts.GitRef, tmpl.Location).
				WithDetail("ref", opts.GitRef)
		}
	}

	r.logger.Debug().Str("location", tmpl.Location).Str("dir", src.Dir).Msg("Template source resolved")
	return src, nil
}

// EnsureCached returns the cache directory for url, cloning it if absent.
// fresh reports whether a clone happened.
func (r *SourceResolver) EnsureCached(ctx context.Context, url string) (dir string, fresh bool, err error) {
	dir = r.paths.RepoCacheDir(url)
	if paths.IsGitRepo(dir) {
		return dir, false, nil
	}

	// a half-finished clone leaves a directory git refuses to clone into
	if err := os.RemoveAll(dir); err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileWrite, "failed to clear cache directory %s", dir)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return "", false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create cache directory %s", filepath.Dir(dir))
	}

	r.logger.Info().Str("url", url).Str("cache", dir).Msg("Caching template")
	if err := r.git.Clone(ctx, url, dir); err != nil {
		return "", false, errors.Wrapf(err, errors.ErrGitCommand, "failed to clone %s", url)
	}
	return dir, true, nil
}

// Refresh fetches origin and hard-resets dir to it. Failures are logged
// and otherwise ignored: a stale template is better than no template.
func (r *SourceResolver) Refresh(ctx context.Context, dir string) {
	if err := r.git.Fetch(ctx, dir); err != nil {
		r.logger.Warn().Err(err).Str("dir", dir).Msg("Could not fetch template updates")
		return
	}
	if err := r.git.ResetHardOrigin(ctx, dir); err != nil {
		r.logger.Warn().Err(err).Str("dir", dir).Msg("Could not reset template to origin")
	}
}
