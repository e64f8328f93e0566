package update

import (
	"context"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/materialize"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/rs/zerolog"
)

// Statuses reported per template
const (
	StatusUpdateAvailable = "update available"
	StatusUpToDate        = "up to date"
	StatusUpdated         = "updated"
	StatusPinned          = "skipped (pinned to immutable ref)"
	StatusNotGit          = "skipped (not a git repository)"
)

// UpdateOptions defines the options for the Update command
type UpdateOptions struct {
	Paths *paths.Paths
	// Git defaults to the git binary on PATH
	Git *git.Client
	// Name restricts the update to one template; empty means all
	Name string
	// Check only reports whether an update is available
	Check bool
}

// Outcome is the result for one template. Exactly one of Status and Err
// is set.
type Outcome struct {
	Name   string
	Status string
	Err    error
}

// UpdateResult lists outcomes in name order
type UpdateResult struct {
	Outcomes []Outcome
}

// Update fetches and fast-forwards git-backed templates. Every template
// is attempted; failures are collected into one error returned alongside
// the full result.
func Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	log := logging.GetLogger("commands.update")
	log.Debug().Str("command", "Update").Str("name", opts.Name).Bool("check", opts.Check).Msg("Executing command")

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}

	var templates []types.Template
	if opts.Name != "" {
		tmpl, err := reg.Get(opts.Name)
		if err != nil {
			return nil, err
		}
		templates = []types.Template{tmpl}
	} else {
		templates = reg.Sorted()
	}

	client := opts.Git
	if client == nil {
		client = git.New(nil)
	}
	u := &updater{
		git:     client,
		sources: materialize.NewSourceResolver(opts.Paths, client),
		check:   opts.Check,
		logger:  log,
	}

	result := &UpdateResult{}
	var failures []string
	for _, tmpl := range templates {
		status, err := u.update(ctx, tmpl)
		result.Outcomes = append(result.Outcomes, Outcome{Name: tmpl.Name, Status: status, Err: err})
		if err != nil {
			failures = append(failures, tmpl.Name+": "+strings.Join(errors.Chain(err), ": "))
		}
	}

	if len(failures) > 0 {
		return result, errors.Newf(errors.ErrGitCommand,
			"some templates failed to update:\n%s", strings.Join(failures, "\n")).
			WithDetail("failed", len(failures))
	}
	log.Info().Str("command", "Update").Int("templates", len(templates)).Msg("Command finished")
	return result, nil
}

type updater struct {
	git     *git.Client
	sources *materialize.SourceResolver
	check   bool
	logger  zerolog.Logger
}

func (u *updater) update(ctx context.Context, tmpl types.Template) (string, error) {
	if paths.IsGitURL(tmpl.Location) {
		return u.updateURL(ctx, tmpl)
	}
	return u.updateLocal(ctx, tmpl)
}

func (u *updater) updateURL(ctx context.Context, tmpl types.Template) (string, error) {
	dir, _, err := u.sources.EnsureCached(ctx, tmpl.Location)
	if err != nil {
		return "", err
	}
	if err := u.git.Fetch(ctx, dir); err != nil {
		return "", errors.Wrap(err, errors.ErrGitCommand, "fetch failed")
	}
	if u.check {
		return u.checkStatus(ctx, dir), nil
	}
	if tmpl.GitRef != "" {
		return u.followRef(ctx, dir, tmpl.GitRef, u.git.ResetHardOrigin)
	}
	if err := u.git.ResetHardOrigin(ctx, dir); err != nil {
		return "", errors.Wrap(err, errors.ErrGitCommand, "reset failed")
	}
	return StatusUpdated, nil
}

func (u *updater) updateLocal(ctx context.Context, tmpl types.Template) (string, error) {
	dir := paths.ExpandHome(tmpl.Location)
	if !paths.IsGitRepo(dir) {
		return StatusNotGit, nil
	}
	// a local repository without a remote is fine
	if err := u.git.Fetch(ctx, dir); err != nil {
		u.logger.Debug().Err(err).Str("template", tmpl.Name).Msg("Fetch failed, continuing")
	}
	if u.check {
		return u.checkStatus(ctx, dir), nil
	}
	if tmpl.GitRef != "" {
		return u.followRef(ctx, dir, tmpl.GitRef, u.git.PullFFOnly)
	}
	if !u.git.IsBehindRemote(ctx, dir) {
		return StatusUpToDate, nil
	}
	if err := u.git.PullFFOnly(ctx, dir); err != nil {
		return "", errors.Wrap(err, errors.ErrGitCommand, "pull failed")
	}
	return StatusUpdated, nil
}

func (u *updater) checkStatus(ctx context.Context, dir string) string {
	if u.git.IsBehindRemote(ctx, dir) {
		return StatusUpdateAvailable
	}
	return StatusUpToDate
}

// followRef checks out a branch ref and brings it level with its upstream.
// Tags and commits never move, so they are left alone.
func (u *updater) followRef(ctx context.Context, dir, ref string, advance func(context.Context, string) error) (string, error) {
	if u.git.ClassifyRef(ctx, dir, ref) != git.RefBranch {
		return StatusPinned, nil
	}
	if err := u.git.Checkout(ctx, dir, ref); err != nil {
		return "", errors.Wrapf(err, errors.ErrGitCommand, "failed to check out %s", ref)
	}
	if u.git.IsBehindRemote(ctx, dir) {
		if err := advance(ctx, dir); err != nil {
			return "", errors.Wrapf(err, errors.ErrGitCommand, "failed to update branch %s", ref)
		}
	}
	return StatusUpdated, nil
}
