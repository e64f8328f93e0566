package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner executes one git command in dir and returns its trimmed stdout
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CLI runs the git binary found on PATH
type CLI struct {
	binary string
	logger zerolog.Logger
}

// NewCLI creates a Runner for the git on PATH
func NewCLI() *CLI {
	return &CLI{binary: "git", logger: logging.GetLogger("git")}
}

// Run implements Runner. A failing command yields an ErrGitCommand error
// carrying stderr and the exit code.
func (c *CLI) Run(ctx context.Context, dir string, args ...string) (string, error) {
	logging.LogCommand(c.logger, c.binary, args)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		c.logger.Debug().
			Strs("args", args).
			Int("exit_code", exitCode).
			Str("stderr", msg).
			Msg("git command failed")
		return "", errors.Newf(errors.ErrGitCommand, "git %s failed: %s", strings.Join(args, " "), msg).
			WithDetail("args", args).
			WithDetail("stderr", msg).
			WithDetail("exit_code", exitCode)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// exitCode returns the exit code recorded on a Run error, or -1
func exitCode(err error) int {
	if code, ok := errors.GetErrorDetails(err)["exit_code"].(int); ok {
		return code
	}
	return -1
}
