package testutil

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Serenacula/templative/pkg/types"
)

// LinkPrefix marks a FileTree value as a symlink target
const LinkPrefix = "-> "

// FileTree maps slash-separated relative paths to file contents. A value
// starting with LinkPrefix creates a symlink, a path ending in "/" creates
// an empty directory.
type FileTree map[string]string

// Link returns the FileTree value for a symlink to target
func Link(target string) string {
	return LinkPrefix + target
}

// WriteTree creates tree under root
func WriteTree(t *testing.T, fsys types.FS, root string, tree FileTree) {
	t.Helper()

	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", root, err)
	}
	for rel, content := range tree {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := fsys.MkdirAll(full, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", full, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", full, err)
		}
		if strings.HasPrefix(content, LinkPrefix) {
			if err := fsys.Symlink(strings.TrimPrefix(content, LinkPrefix), full); err != nil {
				t.Fatalf("Failed to create symlink %s: %v", full, err)
			}
			continue
		}
		if err := fsys.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", full, err)
		}
	}
}

// ReadTree returns every file and symlink under root in FileTree form.
// Directories are only listed when empty.
func ReadTree(t *testing.T, fsys types.FS, root string) FileTree {
	t.Helper()

	tree := FileTree{}
	var visit func(rel string)
	visit = func(rel string) {
		dir := filepath.Join(root, rel)
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", dir, err)
		}
		if len(entries) == 0 && rel != "" {
			tree[filepath.ToSlash(rel)+"/"] = ""
		}
		for _, e := range entries {
			childRel := filepath.Join(rel, e.Name())
			full := filepath.Join(root, childRel)
			info, err := fsys.Lstat(full)
			if err != nil {
				t.Fatalf("Failed to stat %s: %v", full, err)
			}
			key := filepath.ToSlash(childRel)
			switch {
			case info.Mode()&fs.ModeSymlink != 0:
				target, err := fsys.Readlink(full)
				if err != nil {
					t.Fatalf("Failed to read link %s: %v", full, err)
				}
				tree[key] = Link(target)
			case info.IsDir():
				visit(childRel)
			default:
				data, err := fsys.ReadFile(full)
				if err != nil {
					t.Fatalf("Failed to read %s: %v", full, err)
				}
				tree[key] = string(data)
			}
		}
	}
	visit("")
	return tree
}

// Paths returns the sorted keys of a FileTree
func (tree FileTree) Paths() []string {
	out := make([]string, 0, len(tree))
	for k := range tree {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}
