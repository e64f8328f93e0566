package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Serenacula/templative/pkg/filesystem"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // in-memory afero filesystem, no symlinks
	EnvIsolated                  // real filesystem in a temp directory
)

// TestEnvironment bundles the directories and filesystem a test works in
type TestEnvironment struct {
	Root      string
	HomeDir   string
	ConfigDir string
	CacheDir  string

	FS    types.FS
	Paths *paths.Paths
	Type  EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. Isolated environments
// also point HOME and the TEMPLATIVE_* directory overrides at temp dirs.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual"
		env.FS = filesystem.NewAferoFS(afero.NewMemMapFs())
	case EnvIsolated:
		root, err := filepath.EvalSymlinks(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to resolve temp dir: %v", err)
		}
		env.Root = root
		env.FS = filesystem.NewOS()
	}

	env.HomeDir = filepath.Join(env.Root, "home")
	env.ConfigDir = filepath.Join(env.Root, "config")
	env.CacheDir = filepath.Join(env.Root, "cache")

	for _, dir := range []string{env.HomeDir, env.ConfigDir, env.CacheDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	if envType == EnvIsolated {
		t.Setenv("HOME", env.HomeDir)
		t.Setenv("XDG_STATE_HOME", filepath.Join(env.Root, "state"))
		t.Setenv(paths.EnvConfigDir, env.ConfigDir)
		t.Setenv(paths.EnvCacheDir, env.CacheDir)
	}

	env.Paths = paths.NewWithDirs(env.ConfigDir, env.CacheDir)
	return env
}

// Path joins elements onto the environment root
func (env *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{env.Root}, elem...)...)
}

// WithFileTree writes tree under dir (relative to the root) and returns
// the absolute directory
func (env *TestEnvironment) WithFileTree(dir string, tree FileTree) string {
	env.t.Helper()
	abs := env.Path(dir)
	WriteTree(env.t, env.FS, abs, tree)
	return abs
}
