package copier_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Serenacula/templative/pkg/copier"
	"github.com/Serenacula/templative/pkg/testutil"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyRewritesSymlinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	outside := env.WithFileTree("outside", testutil.FileTree{"ext.txt": "external"})
	src := env.Path("template")
	testutil.WriteTree(t, env.FS, src, testutil.FileTree{
		"file.txt":      "top",
		"sub/inner.txt": "inner",
		"sub/rel-link":  testutil.Link("../file.txt"),
		"abs-link":      testutil.Link(filepath.Join(src, "sub", "inner.txt")),
		"sub/abs-deep":  testutil.Link(filepath.Join(src, "file.txt")),
		"out-link":      testutil.Link(filepath.Join(outside, "ext.txt")),
		"rel-out":       testutil.Link("../outside/ext.txt"),
		"broken":        testutil.Link("missing.txt"),
	})
	dst := env.Path("out")

	report, err := copier.New(env.FS, nil).Copy(src, dst, nil, types.WriteModeStrict)
	require.NoError(t, err)

	tests := []struct {
		link       string
		wantTarget string
		wantData   string
	}{
		{"sub/rel-link", "../file.txt", "top"},
		{"abs-link", filepath.Join("sub", "inner.txt"), "inner"},
		{"sub/abs-deep", filepath.Join("..", "file.txt"), "top"},
		{"out-link", filepath.Join(outside, "ext.txt"), "external"},
		{"rel-out", filepath.Join(outside, "ext.txt"), "external"},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			linkPath := filepath.Join(dst, filepath.FromSlash(tt.link))
			target, err := os.Readlink(linkPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, target)

			data, err := os.ReadFile(linkPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, string(data))
		})
	}

	target, err := os.Readlink(filepath.Join(dst, "broken"))
	require.NoError(t, err)
	assert.Equal(t, "missing.txt", target, "broken links keep their raw target")
	assert.Equal(t, []string{"broken"}, report.BrokenLinks)
}

func TestRewriteTarget(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.Path("src")
	dst := env.Path("dst")
	testutil.WriteTree(t, env.FS, src, testutil.FileTree{
		"a/b/target.txt": "t",
		"a/link":         testutil.Link(filepath.Join(src, "a", "b", "target.txt")),
		"root-link":      testutil.Link(src),
		"a/b/c/up":       testutil.Link(filepath.Join(src, "a", "b", "target.txt")),
	})

	tests := []struct {
		name   string
		link   string
		want   string
		inside bool
	}{
		{"sibling_subdir", "a/link", filepath.Join("b", "target.txt"), true},
		{"points_at_root", "root-link", ".", true},
		{"climbs_up", "a/b/c/up", filepath.Join("..", "target.txt"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := filepath.FromSlash(tt.link)
			rw, err := copier.RewriteTarget(env.FS, filepath.Join(src, rel), filepath.Join(dst, rel), src, dst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rw.Target)
			assert.Equal(t, tt.inside, rw.Inside)
			assert.False(t, rw.Broken)
		})
	}
}

func TestRewriteTargetDisjointRoots(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.Path("deep", "nested", "src")
	dst := env.Path("elsewhere")
	testutil.WriteTree(t, env.FS, src, testutil.FileTree{
		"f.txt": "f",
		"l":     testutil.Link(filepath.Join(src, "f.txt")),
	})

	rw, err := copier.RewriteTarget(env.FS, filepath.Join(src, "l"), filepath.Join(dst, "l"), src, dst)
	require.NoError(t, err)
	assert.Equal(t, "f.txt", rw.Target)
}
