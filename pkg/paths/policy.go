package paths

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	urlSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}
	// user@host:path, the scp-like syntax git accepts for ssh
	scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[^/]`)
)

// IsGitURL reports whether location names a remote repository rather than
// a local path
func IsGitURL(location string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(location, scheme) {
			return true
		}
	}
	return scpLike.MatchString(location)
}

// IsDangerousTarget reports whether path is the filesystem root or the
// user's home directory. path should already be absolute. Both the literal
// and the symlink-resolved home are checked.
func IsDangerousTarget(path string) bool {
	path = filepath.Clean(path)
	if path == string(filepath.Separator) {
		return true
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return false
	}
	home = filepath.Clean(home)
	if path == home {
		return true
	}
	if resolved, err := filepath.EvalSymlinks(home); err == nil && path == resolved {
		return true
	}
	return false
}

// IsEmptyDir reports whether path is a directory with no entries. A path
// that does not exist counts as empty.
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// IsGitRepo reports whether dir contains a .git entry
func IsGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// RepoNameFromURL returns the last path segment of a git URL without the
// .git suffix
func RepoNameFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}
