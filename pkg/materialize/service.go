package materialize

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/copier"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/exclude"
	"github.com/Serenacula/templative/pkg/filesystem"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/hooks"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Service
type Options struct {
	Config   *config.Config
	Registry *registry.Registry
	Paths    *paths.Paths
	// Git defaults to the git binary on PATH
	Git *git.Client
	// Prompter resolves conflicts in Ask mode; nil makes Ask fail on the
	// first conflict
	Prompter copier.Prompter
	// HookOutput receives hook stdout and stderr; nil discards
	HookOutput io.Writer
	// FS defaults to the OS filesystem
	FS types.FS
}

// Request names the template to materialize and where
type Request struct {
	TemplateName string
	Target       string
	Flags        options.Flags
}

// Result describes a completed materialization
type Result struct {
	// Target is the canonical target directory
	Target   string
	Template types.Template
	Options  options.ResolvedOptions
	// Report is nil in Preserve mode, which clones instead of copying
	Report *copier.Report
	// PostInitErr is the post-init hook failure, which does not fail the run
	PostInitErr error
}

// Service materializes templates
type Service struct {
	cfg      *config.Config
	registry *registry.Registry
	fs       types.FS
	copier   *copier.Copier
	sources  *SourceResolver
	executor *gitModeExecutor
	hooks    *hooks.Runner
	logger   zerolog.Logger
}

// New creates a Service
func New(opts Options) *Service {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	client := opts.Git
	if client == nil {
		client = git.New(nil)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	logger := logging.GetLogger("materialize")
	cp := copier.New(fsys, opts.Prompter)
	return &Service{
		cfg:      cfg,
		registry: opts.Registry,
		fs:       fsys,
		copier:   cp,
		sources:  NewSourceResolver(opts.Paths, client),
		executor: &gitModeExecutor{copier: cp, git: client, logger: logger},
		hooks:    hooks.New(opts.HookOutput, opts.HookOutput),
		logger:   logger,
	}
}

// Materialize runs one init. Every check that needs no writes runs before
// the target is created; the pre-init hook runs after them and before the
// first file is copied.
func (s *Service) Materialize(ctx context.Context, req Request) (*Result, error) {
	defer logging.LogOperationStart(s.logger, "materialize")()

	tmpl, err := s.registry.Get(req.TemplateName)
	if err != nil {
		return nil, err
	}
	opts := options.Resolve(s.cfg, &tmpl, req.Flags)
	s.logger.Debug().
		Str("template", tmpl.Name).
		Str("git", opts.GitMode.String()).
		Str("write_mode", opts.WriteMode.String()).
		Strs("exclude", opts.Exclude).
		Msg("Options resolved")

	if _, err := exclude.Compile(opts.Exclude); err != nil {
		return nil, err
	}

	target, err := canonicalTarget(req.Target)
	if err != nil {
		return nil, err
	}
	if paths.IsDangerousTarget(target) {
		return nil, errors.DangerousTarget(target)
	}

	src, err := s.sources.Resolve(ctx, tmpl, opts)
	if err != nil {
		return nil, err
	}
	defer src.Cleanup()

	if info, err := s.fs.Stat(src.Dir); err != nil || !info.IsDir() {
		return nil, errors.TemplatePathMissing(src.Dir)
	}

	if err := s.preflight(src, target, opts); err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(target, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create target %s", target)
	}

	if err := s.hooks.Run(ctx, "pre-init", opts.PreInit, target); err != nil {
		return nil, err
	}

	report, err := s.executor.execute(ctx, tmpl.Name, src, target, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Target: target, Template: tmpl, Options: opts, Report: report}
	if err := s.hooks.Run(ctx, "post-init", opts.PostInit, target); err != nil {
		s.logger.Warn().Err(err).Str("target", target).Msg("post-init hook failed")
		result.PostInitErr = err
	}

	s.logger.Info().Str("template", tmpl.Name).Str("target", target).Msg("Template materialized")
	return result, nil
}

// preflight runs the checks for the git mode without writing anything
func (s *Service) preflight(src *Source, target string, opts options.ResolvedOptions) error {
	switch opts.GitMode {
	case types.GitModePreserve:
		if !paths.IsGitRepo(src.Dir) {
			return errors.Newf(errors.ErrGitCommand,
				"template %s is not a git repository; preserve mode needs its history (use fresh or no-git)",
				src.Location)
		}
		empty, err := paths.IsEmptyDir(target)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read target %s", target)
		}
		if !empty {
			return errors.TargetNotEmpty(target)
		}
		return nil
	case types.GitModeFresh, types.GitModeNoGit:
		_, err := s.copier.Preflight(src.Dir, target, opts.Exclude, opts.WriteMode)
		return err
	}
	return errors.Newf(errors.ErrInternal, "unknown git mode %v", opts.GitMode)
}

// canonicalTarget makes path absolute and resolves symlinks in the part of
// it that already exists
func canonicalTarget(path string) (string, error) {
	abs, err := filepath.Abs(paths.ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid target %s", path)
	}

	existing, rest := abs, ""
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve target %s", path)
	}
	return filepath.Join(resolved, rest), nil
}
