package copier_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Serenacula/templative/pkg/copier"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/testutil"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultExclude = []string{"node_modules", ".DS_Store"}

func TestCopyExcludesPatternsAndGitDir(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"src/main.txt":      "main",
		".git/config":       "[core]",
		"node_modules/x":    "x",
		"dist/bundle.js":    "bundle",
		"deep/nested/f.txt": "f",
	})
	dst := env.Path("out")

	c := copier.New(env.FS, nil)
	report, err := c.Copy(src, dst, append(append([]string{}, defaultExclude...), "dist"), types.WriteModeStrict)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{
		"src/main.txt":      "main",
		"deep/nested/f.txt": "f",
	}, testutil.ReadTree(t, env.FS, dst))
	assert.ElementsMatch(t, []string{"src/main.txt", filepath.Join("deep", "nested", "f.txt")}, report.Copied)
}

func TestCopyExcludesByExtensionAtAnyDepth(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"main.go":        "package main",
		"debug.log":      "log",
		"logs/error.log": "log",
		"a/.DS_Store":    "",
	})
	dst := env.Path("out")

	_, err := copier.New(env.FS, nil).Copy(src, dst, append([]string{"*.log"}, defaultExclude...), types.WriteModeStrict)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{
		"main.go": "package main",
		"logs/":   "",
		"a/":      "",
	}, testutil.ReadTree(t, env.FS, dst))
}

func TestCopySourceMustBeDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WithFileTree("template", testutil.FileTree{"file.txt": "x"})
	dst := env.Path("out")

	for _, src := range []string{env.Path("missing"), env.Path("template", "file.txt")} {
		_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplatePathMissing))
	}
	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "target must not be created")
}

func TestCopyInvalidPatternWritesNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "a"})
	dst := env.Path("out")

	_, err := copier.New(env.FS, nil).Copy(src, dst, []string{"[oops"}, types.WriteModeOverwrite)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidExcludePattern))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStrictModeRequiresEmptyTarget(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "new", "b.txt": "new"})
	dst := env.WithFileTree("out", testutil.FileTree{".keep": "keep"})
	before := testutil.ReadTree(t, env.FS, dst)

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotEmpty))
	assert.Equal(t, before, testutil.ReadTree(t, env.FS, dst))
}

func TestStrictModeAcceptsEmptyExistingTarget(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "a"})
	dst := env.Path("out")
	require.NoError(t, os.Mkdir(dst, 0755))

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.NoError(t, err)
	assert.Equal(t, testutil.FileTree{"a.txt": "a"}, testutil.ReadTree(t, env.FS, dst))
}

func TestNoOverwriteIsAllOrNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt":     "new a",
		"new.txt":   "new",
		"sub/b.txt": "new b",
		"sub/c.txt": "new c",
	})
	dst := env.WithFileTree("out", testutil.FileTree{
		"a.txt":     "keep a",
		"sub/b.txt": "keep b",
		"other.txt": "other",
	})
	before := testutil.ReadTree(t, env.FS, dst)

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeNoOverwrite)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesWouldBeOverwritten))
	assert.Equal(t, []string{"a.txt", filepath.Join("sub", "b.txt")}, errors.CollidingPaths(err))
	assert.Equal(t, before, testutil.ReadTree(t, env.FS, dst), "no partial writes")
}

func TestNoOverwriteMergesWithoutCollisions(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"sub/new.txt": "new"})
	dst := env.WithFileTree("out", testutil.FileTree{"sub/old.txt": "old"})

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeNoOverwrite)
	require.NoError(t, err)
	assert.Equal(t, testutil.FileTree{
		"sub/new.txt": "new",
		"sub/old.txt": "old",
	}, testutil.ReadTree(t, env.FS, dst))
}

func TestSkipOverwriteLeavesExistingEntries(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt":         "new a",
		"b.txt":         "new b",
		"blocked/x.txt": "x",
		"blocked/y.txt": "y",
	})
	dst := env.WithFileTree("out", testutil.FileTree{
		"a.txt":   "keep a",
		"blocked": "a file where the template has a directory",
	})

	report, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeSkipOverwrite)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{
		"a.txt":   "keep a",
		"b.txt":   "new b",
		"blocked": "a file where the template has a directory",
	}, testutil.ReadTree(t, env.FS, dst))
	assert.Equal(t, []string{"a.txt", "blocked"}, report.Skipped)
	assert.Equal(t, []string{"b.txt"}, report.Copied)
}

func TestOverwriteReplacesExistingEntries(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt":       "new a",
		"dir/in.txt":  "inside",
		"file-or-dir": "now a file",
	})
	dst := env.WithFileTree("out", testutil.FileTree{
		"a.txt": "old a",
		"dir":   "was a file",
	})
	require.NoError(t, env.FS.MkdirAll(filepath.Join(dst, "file-or-dir"), 0755))

	report, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeOverwrite)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{
		"a.txt":       "new a",
		"dir/in.txt":  "inside",
		"file-or-dir": "now a file",
	}, testutil.ReadTree(t, env.FS, dst))
	assert.Equal(t, []string{"a.txt", "dir", "file-or-dir"}, report.Overwritten)
}

func TestOverwriteKeepsNonEmptyDirectory(t *testing.T) {
	for _, mode := range []types.WriteMode{types.WriteModeOverwrite, types.WriteModeAsk} {
		t.Run(mode.String(), func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
			src := env.WithFileTree("template", testutil.FileTree{
				"docs":   "template file",
				"new.md": "new",
			})
			existing := testutil.FileTree{
				"docs/important.txt": "user data",
				"docs/more/x.txt":    "more",
			}
			dst := env.WithFileTree("out", existing)

			prompter := testutil.NewScriptedPrompter(copier.ChoiceOverwrite)
			_, err := copier.New(env.FS, prompter).Copy(src, dst, nil, mode)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			assert.Contains(t, err.Error(), "docs")

			assert.Equal(t, existing, testutil.ReadTree(t, env.FS, dst))
			assert.Empty(t, prompter.Asked)
		})
	}
}

func TestCopyRejectsTargetInsideTemplate(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "a"})

	for _, dst := range []string{filepath.Join(src, "out"), src, filepath.Join(src, "x", "y")} {
		_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
		require.Error(t, err, dst)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "inside template")
	}
	assert.Equal(t, testutil.FileTree{"a.txt": "a"}, testutil.ReadTree(t, env.FS, src))
}

func TestCopyRejectsTargetInsideTemplateThroughSymlink(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "a"})
	alias := env.WithFileTree("links", testutil.FileTree{"tmpl": testutil.Link(src)})

	_, err := copier.New(env.FS, nil).Copy(src, filepath.Join(alias, "tmpl", "out"), nil, types.WriteModeOverwrite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside template")
	assert.Equal(t, testutil.FileTree{"a.txt": "a"}, testutil.ReadTree(t, env.FS, src))
}

func TestOverwriteNeverWritesThroughDestinationSymlink(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	elsewhere := env.WithFileTree("elsewhere", testutil.FileTree{"keep.txt": "keep"})
	src := env.WithFileTree("template", testutil.FileTree{"sub/file.txt": "new"})
	dst := env.WithFileTree("out", testutil.FileTree{"sub": testutil.Link(elsewhere)})

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeOverwrite)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{"sub/file.txt": "new"}, testutil.ReadTree(t, env.FS, dst))
	assert.Equal(t, testutil.FileTree{"keep.txt": "keep"}, testutil.ReadTree(t, env.FS, elsewhere))
}

func TestAskSkipAllEscalatesWithSinglePrompt(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt":       "new a",
		"b.txt":       "new b",
		"later/z.txt": "new z",
	})
	dst := env.WithFileTree("out", testutil.FileTree{
		"a.txt":       "original a",
		"later/z.txt": "original z",
	})

	prompter := testutil.NewScriptedPrompter(copier.ChoiceSkipAll)
	report, err := copier.New(env.FS, prompter).Copy(src, dst, nil, types.WriteModeAsk)
	require.NoError(t, err)

	require.Len(t, prompter.Asked, 1)
	assert.Equal(t, "a.txt", prompter.Asked[0].Rel)
	assert.Equal(t, copier.KindFile, prompter.Asked[0].Existing)
	assert.Equal(t, testutil.FileTree{
		"a.txt":       "original a",
		"b.txt":       "new b",
		"later/z.txt": "original z",
	}, testutil.ReadTree(t, env.FS, dst))
	assert.Equal(t, []string{"a.txt", filepath.Join("later", "z.txt")}, report.Skipped)
}

func TestAskOverwriteAllEscalates(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "new a", "b.txt": "new b"})
	dst := env.WithFileTree("out", testutil.FileTree{"a.txt": "old a", "b.txt": "old b"})

	prompter := testutil.NewScriptedPrompter(copier.ChoiceOverwriteAll)
	_, err := copier.New(env.FS, prompter).Copy(src, dst, nil, types.WriteModeAsk)
	require.NoError(t, err)

	assert.Len(t, prompter.Asked, 1)
	assert.Equal(t, testutil.FileTree{"a.txt": "new a", "b.txt": "new b"}, testutil.ReadTree(t, env.FS, dst))
}

func TestAskPerEntryChoices(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "new a", "b.txt": "new b", "c.txt": "new c"})
	dst := env.WithFileTree("out", testutil.FileTree{"a.txt": "old a", "b.txt": "old b", "c.txt": "old c"})

	prompter := testutil.NewScriptedPrompter(copier.ChoiceOverwrite, copier.ChoiceSkip, copier.ChoiceOverwrite)
	_, err := copier.New(env.FS, prompter).Copy(src, dst, nil, types.WriteModeAsk)
	require.NoError(t, err)

	assert.Len(t, prompter.Asked, 3)
	assert.Equal(t, testutil.FileTree{"a.txt": "new a", "b.txt": "old b", "c.txt": "new c"}, testutil.ReadTree(t, env.FS, dst))
}

func TestAskAbortStopsImmediately(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt": "new a",
		"b.txt": "new b",
		"c.txt": "new c",
	})
	dst := env.WithFileTree("out", testutil.FileTree{"b.txt": "old b"})

	prompter := testutil.NewScriptedPrompter(copier.ChoiceAbort)
	report, err := copier.New(env.FS, prompter).Copy(src, dst, nil, types.WriteModeAsk)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAborted))
	assert.Contains(t, err.Error(), "left in place")

	assert.Equal(t, testutil.FileTree{"a.txt": "new a", "b.txt": "old b"}, testutil.ReadTree(t, env.FS, dst),
		"files written before the abort stay, nothing after it is written")
	assert.Equal(t, []string{"a.txt"}, report.Copied)
}

func TestAskWithoutPrompterFailsBeforeWriting(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "new", "b.txt": "new"})
	dst := env.WithFileTree("out", testutil.FileTree{"b.txt": "old"})

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeAsk)
	require.Error(t, err)
	assert.Equal(t, testutil.FileTree{"b.txt": "old"}, testutil.ReadTree(t, env.FS, dst))
}

func TestCopyPreservesPermissions(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"run.sh": "#!/bin/sh\n", "ro.txt": "ro"})
	require.NoError(t, os.Chmod(filepath.Join(src, "run.sh"), 0755))
	require.NoError(t, os.Chmod(filepath.Join(src, "ro.txt"), 0600))
	dst := env.Path("out")

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dst, "ro.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCopyOnMemoryFilesystem(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	src := env.WithFileTree("template", testutil.FileTree{
		"README.md":      "# hi",
		"cmd/main.go":    "package main",
		"node_modules/x": "x",
	})
	dst := env.Path("out")

	_, err := copier.New(env.FS, nil).Copy(src, dst, defaultExclude, types.WriteModeStrict)
	require.NoError(t, err)
	assert.Equal(t, testutil.FileTree{
		"README.md":   "# hi",
		"cmd/main.go": "package main",
	}, testutil.ReadTree(t, env.FS, dst))
}

type noLinkFS struct {
	types.FS
}

func (noLinkFS) SymlinksSupported() bool { return false }

func TestSymlinkUnsupportedFailsInPreflight(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{
		"a.txt":    "a",
		"link.txt": testutil.Link("a.txt"),
	})
	dst := env.Path("out")

	_, err := copier.New(noLinkFS{env.FS}, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkUnsupported))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "nothing is written")
}

func TestSymlinksAreNotTraversed(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	outside := env.WithFileTree("outside", testutil.FileTree{"secret.txt": "s"})
	src := env.WithFileTree("template", testutil.FileTree{
		"dirlink": testutil.Link(outside),
		"loop":    testutil.Link("."),
	})
	dst := env.Path("out")

	_, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.NoError(t, err)

	assert.Equal(t, testutil.FileTree{
		"dirlink": testutil.Link(outside),
		"loop":    testutil.Link("."),
	}, testutil.ReadTree(t, env.FS, dst))
}

func TestPreflightReportsConflicts(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.WithFileTree("template", testutil.FileTree{"a.txt": "a", "sub/b.txt": "b", "link": testutil.Link("a.txt")})
	dst := env.WithFileTree("out", testutil.FileTree{"a.txt": "old", "sub/": ""})

	plan, err := copier.New(env.FS, nil).Preflight(src, dst, nil, types.WriteModeOverwrite)
	require.NoError(t, err)
	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, "a.txt", plan.Conflicts[0].Rel)
	assert.Equal(t, filepath.Join(dst, "a.txt"), plan.Conflicts[0].Path)
	assert.Equal(t, []string{"link"}, plan.Symlinks)

	assert.Equal(t, testutil.FileTree{"a.txt": "old", "sub/": ""}, testutil.ReadTree(t, env.FS, dst))
}
