// Package hooks runs template pre-init and post-init commands.
//
// Commands are POSIX shell snippets interpreted in-process by mvdan.cc/sh,
// so hooks behave the same on every platform and need no system shell.
// External programs named by a hook are still executed normally.
package hooks

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes hook commands
type Runner struct {
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

// New creates a Runner writing hook output to stdout and stderr. Nil
// writers discard.
func New(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Runner{stdout: stdout, stderr: stderr, logger: logging.GetLogger("hooks")}
}

// Run executes command with dir as the working directory and the process
// environment. A parse error, a non-zero exit or an interpreter failure is
// an ErrHookFailed error whose message includes the hook's stderr.
func (r *Runner) Run(ctx context.Context, kind, command, dir string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	r.logger.Info().Str("hook", kind).Str("dir", dir).Str("command", command).Msg("Running hook")

	file, err := syntax.NewParser().Parse(strings.NewReader(command), kind)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHookFailed, "%s hook is not valid shell", kind).
			WithDetail("hook", kind)
	}

	var captured bytes.Buffer
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, r.stdout, io.MultiWriter(r.stderr, &captured)),
	)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHookFailed, "failed to start %s hook", kind).
			WithDetail("hook", kind)
	}

	if err := runner.Run(ctx, file); err != nil {
		msg := strings.TrimSpace(captured.String())
		var status interp.ExitStatus
		if stderrors.As(err, &status) {
			if msg == "" {
				msg = "exit status " + strconv.Itoa(int(status))
			}
			return errors.Newf(errors.ErrHookFailed, "%s hook failed: %s", kind, msg).
				WithDetail("hook", kind).
				WithDetail("exit_code", int(status))
		}
		return errors.Wrapf(err, errors.ErrHookFailed, "%s hook failed", kind).
			WithDetail("hook", kind)
	}
	return nil
}
