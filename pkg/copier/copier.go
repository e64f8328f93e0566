package copier

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/exclude"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/rs/zerolog"
)

// Report summarizes a live copy. Paths are relative to the destination.
type Report struct {
	Copied      []string
	Skipped     []string
	Overwritten []string
	BrokenLinks []string
}

// Plan is the outcome of the dry pre-flight
type Plan struct {
	Matcher   *exclude.Matcher
	Conflicts []Conflict
	Symlinks  []string
}

// Copier copies template trees through a types.FS
type Copier struct {
	fs       types.FS
	prompter Prompter
	logger   zerolog.Logger
}

// New creates a Copier. prompter may be nil unless Ask mode meets a conflict.
func New(fsys types.FS, prompter Prompter) *Copier {
	return &Copier{
		fs:       fsys,
		prompter: prompter,
		logger:   logging.GetLogger("copier"),
	}
}

type entry struct {
	rel  string
	src  string
	dst  string
	kind EntryKind
	mode fs.FileMode
}

// visitFunc handles one entry; for directories the result says whether to
// descend into it
type visitFunc func(e entry) (descend bool, err error)

// walk visits every non-excluded entry under srcRoot depth-first in
// lexical order. Symlinks are reported as leaves.
func (c *Copier) walk(srcRoot, dstRoot string, m *exclude.Matcher, visit visitFunc) error {
	return c.walkDir(srcRoot, dstRoot, "", m, visit)
}

func (c *Copier) walkDir(srcRoot, dstRoot, relDir string, m *exclude.Matcher, visit visitFunc) error {
	dir := filepath.Join(srcRoot, relDir)
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, de := range entries {
		rel := filepath.Join(relDir, de.Name())
		if m.Excluded(rel) {
			c.logger.Trace().Str("path", rel).Msg("Excluded")
			continue
		}

		src := filepath.Join(srcRoot, rel)
		info, err := c.fs.Lstat(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
		}

		var kind EntryKind
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			kind = KindSymlink
		case info.IsDir():
			kind = KindDir
		case info.Mode().IsRegular():
			kind = KindFile
		default:
			c.logger.Warn().Str("path", src).Str("mode", info.Mode().String()).Msg("Skipping special file")
			continue
		}

		e := entry{rel: rel, src: src, dst: filepath.Join(dstRoot, rel), kind: kind, mode: info.Mode()}
		descend, err := visit(e)
		if err != nil {
			return err
		}
		if kind == KindDir && descend {
			if err := c.walkDir(srcRoot, dstRoot, rel, m, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// existing inspects the destination for e. merge is true when both sides
// are real directories, which is never a conflict.
func (c *Copier) existing(e entry) (conflict *Conflict, merge bool, err error) {
	info, err := c.fs.Lstat(e.dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", e.dst)
	}

	existingKind := KindFile
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		existingKind = KindSymlink
	case info.IsDir():
		existingKind = KindDir
	}

	if e.kind == KindDir && existingKind == KindDir {
		return nil, true, nil
	}
	return &Conflict{Path: e.dst, Rel: e.rel, Existing: existingKind, Incoming: e.kind}, false, nil
}

// Preflight validates a copy without writing anything: the source must be
// a directory outside the target, the patterns must compile and Strict
// needs an empty target. Symlinks need a filesystem that can create them,
// NoOverwrite must find no collisions, and a non-empty directory is never
// replaced by a file.
func (c *Copier) Preflight(src, dst string, patterns []string, mode types.WriteMode) (*Plan, error) {
	info, err := c.fs.Stat(src)
	if err != nil || !info.IsDir() {
		return nil, errors.TemplatePathMissing(src)
	}

	m, err := exclude.Compile(patterns)
	if err != nil {
		return nil, err
	}

	if dstInfo, err := c.fs.Stat(dst); err == nil && !dstInfo.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "target exists and is not a directory: %s", dst)
	}

	if _, inside := within(c.canonical(src), c.canonical(dst)); inside {
		return nil, errors.Newf(errors.ErrInvalidInput, "target %s is inside template %s", dst, src).
			WithDetail("target", dst).
			WithDetail("template", src)
	}

	if mode == types.WriteModeStrict {
		empty, err := c.isEmpty(dst)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, errors.TargetNotEmpty(dst)
		}
	}

	plan := &Plan{Matcher: m}
	err = c.walk(src, dst, m, func(e entry) (bool, error) {
		if e.kind == KindSymlink {
			plan.Symlinks = append(plan.Symlinks, e.rel)
		}
		conflict, merge, err := c.existing(e)
		if err != nil {
			return false, err
		}
		if merge {
			return true, nil
		}
		if conflict != nil {
			plan.Conflicts = append(plan.Conflicts, *conflict)
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if len(plan.Symlinks) > 0 && !c.fs.SymlinksSupported() {
		return nil, errors.Newf(errors.ErrSymlinkUnsupported,
			"template contains symlinks (first: %s) but the target filesystem cannot create them", plan.Symlinks[0]).
			WithDetail("paths", plan.Symlinks)
	}

	if mode == types.WriteModeOverwrite || mode == types.WriteModeAsk {
		var blocked []string
		for _, conflict := range plan.Conflicts {
			if conflict.Existing != KindDir || conflict.Incoming == KindDir {
				continue
			}
			empty, err := c.isEmpty(conflict.Path)
			if err != nil {
				return nil, err
			}
			if !empty {
				blocked = append(blocked, conflict.Rel)
			}
		}
		if len(blocked) > 0 {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"refusing to replace non-empty directory %s with a file or symlink", blocked[0]).
				WithDetail("paths", blocked)
		}
	}

	if len(plan.Conflicts) > 0 {
		switch mode {
		case types.WriteModeNoOverwrite:
			rels := make([]string, len(plan.Conflicts))
			for i, conflict := range plan.Conflicts {
				rels[i] = conflict.Rel
			}
			return nil, errors.FilesWouldBeOverwritten(rels)
		case types.WriteModeAsk:
			if c.prompter == nil {
				return nil, errors.New(errors.ErrInvalidInput, "write mode ask needs an interactive prompt")
			}
		case types.WriteModeStrict, types.WriteModeSkipOverwrite, types.WriteModeOverwrite:
		}
	}

	c.logger.Debug().
		Str("src", src).
		Str("dst", dst).
		Str("mode", mode.String()).
		Int("conflicts", len(plan.Conflicts)).
		Int("symlinks", len(plan.Symlinks)).
		Msg("Preflight complete")
	return plan, nil
}

// canonical resolves symlinks in the longest existing prefix of p
func (c *Copier) canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	existing, rest := abs, ""
	for {
		if resolved, err := c.fs.EvalSymlinks(existing); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

func (c *Copier) isEmpty(dir string) (bool, error) {
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read target %s", dir)
	}
	return len(entries) == 0, nil
}

// Copy copies src into dst. All pre-flight checks run before dst is
// created. Once writing starts, failures are returned without rollback.
func (c *Copier) Copy(src, dst string, patterns []string, mode types.WriteMode) (*Report, error) {
	plan, err := c.Preflight(src, dst, patterns, mode)
	if err != nil {
		return nil, err
	}

	if err := c.fs.MkdirAll(dst, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create target %s", dst)
	}

	session := mode
	report := &Report{}
	err = c.walk(src, dst, plan.Matcher, func(e entry) (bool, error) {
		return c.apply(e, src, dst, &session, report)
	})
	if err != nil {
		return report, err
	}

	c.logger.Info().
		Str("dst", dst).
		Int("copied", len(report.Copied)).
		Int("skipped", len(report.Skipped)).
		Int("overwritten", len(report.Overwritten)).
		Msg("Copy complete")
	return report, nil
}

func (c *Copier) apply(e entry, srcRoot, dstRoot string, session *types.WriteMode, report *Report) (bool, error) {
	conflict, merge, err := c.existing(e)
	if err != nil {
		return false, err
	}
	if merge {
		return true, nil
	}

	if conflict != nil {
		act, err := resolveConflict(session, c.prompter, dstRoot, *conflict)
		if err != nil {
			return false, err
		}
		switch act {
		case actionSkip:
			c.logger.Info().Str("path", e.rel).Msg("Skipped existing entry")
			report.Skipped = append(report.Skipped, e.rel)
			return false, nil
		case actionOverwrite:
			// Remove refuses non-empty directories
			if err := c.fs.Remove(e.dst); err != nil {
				return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", e.dst)
			}
			report.Overwritten = append(report.Overwritten, e.rel)
		}
	}

	switch e.kind {
	case KindDir:
		if err := c.fs.MkdirAll(e.dst, e.mode.Perm()|0700); err != nil {
			return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", e.dst)
		}
		return true, nil
	case KindFile:
		if err := c.copyFile(e); err != nil {
			return false, err
		}
	case KindSymlink:
		rewrite, err := RewriteTarget(c.fs, e.src, e.dst, srcRoot, dstRoot)
		if err != nil {
			return false, errors.Wrap(err, errors.ErrSymlinkCreate, "failed to rewrite symlink")
		}
		if rewrite.Broken {
			c.logger.Warn().Str("path", e.rel).Str("target", rewrite.Raw).Msg("Symlink is broken, copying its target as is")
			report.BrokenLinks = append(report.BrokenLinks, e.rel)
		}
		if err := c.fs.Symlink(rewrite.Target, e.dst); err != nil {
			return false, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s", e.dst)
		}
	}

	if conflict == nil {
		report.Copied = append(report.Copied, e.rel)
	}
	return false, nil
}

func (c *Copier) copyFile(e entry) error {
	in, err := c.fs.Open(e.src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", e.src)
	}
	defer func() { _ = in.Close() }()

	out, err := c.fs.Create(e.dst, e.mode.Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", e.dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s", e.rel)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", e.dst)
	}

	if err := c.fs.Chmod(e.dst, e.mode.Perm()); err != nil {
		c.logger.Warn().Err(err).Str("path", e.rel).Msg("Could not copy permissions")
	}
	return nil
}
