package materialize

import (
	"context"

	"github.com/Serenacula/templative/pkg/copier"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/rs/zerolog"
)

// CommitMessage is the message of the single commit Fresh mode records
func CommitMessage(templateName string) string {
	return "Initial commit from template: " + templateName
}

// gitModeExecutor produces the target tree for one git mode
type gitModeExecutor struct {
	copier *copier.Copier
	git    *git.Client
	logger zerolog.Logger
}

func (x *gitModeExecutor) execute(ctx context.Context, name string, src *Source, target string, opts options.ResolvedOptions) (*copier.Report, error) {
	switch opts.GitMode {
	case types.GitModeFresh:
		return x.fresh(ctx, name, src, target, opts)
	case types.GitModePreserve:
		return nil, x.preserve(ctx, src, target, opts)
	case types.GitModeNoGit:
		return x.copier.Copy(src.Dir, target, opts.Exclude, opts.WriteMode)
	}
	return nil, errors.Newf(errors.ErrInternal, "unknown git mode %v", opts.GitMode)
}

// fresh copies the tree and records it as one new commit. A target that is
// already a repository gets the commit on its current branch.
func (x *gitModeExecutor) fresh(ctx context.Context, name string, src *Source, target string, opts options.ResolvedOptions) (*copier.Report, error) {
	report, err := x.copier.Copy(src.Dir, target, opts.Exclude, opts.WriteMode)
	if err != nil {
		return report, err
	}

	if err := x.git.CheckIdentity(ctx, target); err != nil {
		if !errors.IsErrorCode(err, errors.ErrGitIdentityMissing) {
			return report, err
		}
		return report, errors.Wrapf(err, errors.ErrGitIdentityMissing,
			"files were copied to %s but no commit was made", target)
	}

	if paths.IsGitRepo(target) {
		x.logger.Info().Str("target", target).Msg("Target is already a repository, committing into it")
	} else if err := x.git.Init(ctx, target); err != nil {
		return report, err
	}

	if err := x.git.AddAll(ctx, target); err != nil {
		return report, err
	}
	dirty, err := x.git.IsDirty(ctx, target)
	if err != nil {
		return report, err
	}
	if !dirty {
		x.logger.Info().Str("target", target).Msg("Nothing to commit")
		return report, nil
	}
	return report, x.git.Commit(ctx, target, CommitMessage(name))
}

// preserve clones the source so its history comes along. The clone's
// origin is pointed at the template URL rather than at the local cache.
func (x *gitModeExecutor) preserve(ctx context.Context, src *Source, target string, opts options.ResolvedOptions) error {
	if err := x.git.Clone(ctx, src.Dir, target); err != nil {
		return err
	}
	if opts.GitRef != "" {
		if err := x.git.Checkout(ctx, target, opts.GitRef); err != nil {
			return err
		}
	}
	if src.IsURL {
		return x.git.SetRemoteURL(ctx, target, src.Location)
	}
	return nil
}
