package git

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
)

// RefKind classifies a ref name within a repository
type RefKind int

const (
	RefBranch RefKind = iota
	RefTag
	RefCommit
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefTag:
		return "tag"
	case RefCommit:
		return "commit"
	}
	return fmt.Sprintf("RefKind(%d)", int(k))
}

// Client offers the repository operations templative needs on top of a Runner
type Client struct {
	runner Runner
}

// New creates a Client. A nil runner means the git binary on PATH.
func New(runner Runner) *Client {
	if runner == nil {
		runner = NewCLI()
	}
	return &Client{runner: runner}
}

// Init creates a repository in dir
func (c *Client) Init(ctx context.Context, dir string) error {
	_, err := c.runner.Run(ctx, dir, "init")
	return err
}

// AddAll stages every change in dir
func (c *Client) AddAll(ctx context.Context, dir string) error {
	_, err := c.runner.Run(ctx, dir, "add", "-A")
	return err
}

// Commit records staged changes with message
func (c *Client) Commit(ctx context.Context, dir, message string) error {
	_, err := c.runner.Run(ctx, dir, "commit", "-m", message)
	return err
}

// Clone clones src into dst
func (c *Client) Clone(ctx context.Context, src, dst string) error {
	_, err := c.runner.Run(ctx, "", "clone", src, dst)
	return err
}

// SetRemoteURL points origin at url
func (c *Client) SetRemoteURL(ctx context.Context, dir, url string) error {
	_, err := c.runner.Run(ctx, dir, "remote", "set-url", "origin", url)
	return err
}

// Fetch fetches origin, including tags
func (c *Client) Fetch(ctx context.Context, dir string) error {
	_, err := c.runner.Run(ctx, dir, "fetch", "--tags", "origin")
	return err
}

// ResetHardOrigin moves the working tree to the upstream of the current
// branch, falling back to origin/HEAD when there is none
func (c *Client) ResetHardOrigin(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, "reset", "--hard", "@{upstream}"); err == nil {
		return nil
	}
	_, err := c.runner.Run(ctx, dir, "reset", "--hard", "origin/HEAD")
	return err
}

// Checkout checks out ref
func (c *Client) Checkout(ctx context.Context, dir, ref string) error {
	_, err := c.runner.Run(ctx, dir, "checkout", ref)
	return err
}

// PullFFOnly fast-forwards the current branch from its upstream
func (c *Client) PullFFOnly(ctx context.Context, dir string) error {
	_, err := c.runner.Run(ctx, dir, "pull", "--ff-only")
	return err
}

// ConfigValue reads a git config key as seen from dir. An unset key is
// the empty string, not an error.
func (c *Client) ConfigValue(ctx context.Context, dir, key string) (string, error) {
	out, err := c.runner.Run(ctx, dir, "config", key)
	if err != nil {
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// CheckIdentity verifies that a commit made in dir would have a committer
// name and email, from GIT_COMMITTER_NAME/GIT_COMMITTER_EMAIL or from
// user.name/user.email
func (c *Client) CheckIdentity(ctx context.Context, dir string) error {
	name := os.Getenv("GIT_COMMITTER_NAME")
	if name == "" {
		v, err := c.ConfigValue(ctx, dir, "user.name")
		if err != nil {
			return err
		}
		name = v
	}
	email := os.Getenv("GIT_COMMITTER_EMAIL")
	if email == "" {
		v, err := c.ConfigValue(ctx, dir, "user.email")
		if err != nil {
			return err
		}
		email = v
	}

	var missing []string
	if name == "" {
		missing = append(missing, `  git config --global user.name "Your Name"`)
	}
	if email == "" {
		missing = append(missing, `  git config --global user.email "you@example.com"`)
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrGitIdentityMissing,
			"git identity not set; run:\n%s", strings.Join(missing, "\n")).
			WithDetail("commands", missing)
	}
	return nil
}

// RefExists reports whether ref resolves to a commit in dir
func (c *Client) RefExists(ctx context.Context, dir, ref string) bool {
	_, err := c.runner.Run(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	return err == nil
}

func (c *Client) hasRef(ctx context.Context, dir, full string) bool {
	_, err := c.runner.Run(ctx, dir, "show-ref", "--verify", "--quiet", full)
	return err == nil
}

// ClassifyRef reports whether ref names a branch (local or on origin), a
// tag, or otherwise a commit
func (c *Client) ClassifyRef(ctx context.Context, dir, ref string) RefKind {
	switch {
	case c.hasRef(ctx, dir, "refs/heads/"+ref), c.hasRef(ctx, dir, "refs/remotes/origin/"+ref):
		return RefBranch
	case c.hasRef(ctx, dir, "refs/tags/"+ref):
		return RefTag
	default:
		return RefCommit
	}
}

// IsBehindRemote reports whether the current branch's upstream has commits
// HEAD lacks. Repositories without an upstream are never behind.
func (c *Client) IsBehindRemote(ctx context.Context, dir string) bool {
	out, err := c.runner.Run(ctx, dir, "rev-list", "--count", "HEAD..@{upstream}")
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(out)
	return err == nil && n > 0
}

// CurrentBranch returns the checked out branch, or "" when HEAD is detached
func (c *Client) CurrentBranch(ctx context.Context, dir string) string {
	out, err := c.runner.Run(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// IsDirty reports whether dir has staged, unstaged or untracked changes
func (c *Client) IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := c.runner.Run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
