package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/Serenacula/templative/pkg/copier"
)

func sortStrings(s []string) {
	sort.Strings(s)
}

// RequireGit skips the test when no git binary is on PATH
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// IsolateGitConfig points git at empty global and system configs so the
// developer's own settings cannot leak into a test
func IsolateGitConfig(t *testing.T) {
	t.Helper()
	global := filepath.Join(t.TempDir(), "gitconfig")
	if err := os.WriteFile(global, nil, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", global)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	for _, key := range []string{"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL"} {
		t.Setenv(key, "")
	}
}

// SetGitIdentity isolates git config and provides a committer identity
func SetGitIdentity(t *testing.T) {
	t.Helper()
	IsolateGitConfig(t)
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

// InitRepo turns dir into a git repository on branch main with every file
// committed. Requires SetGitIdentity.
func InitRepo(t *testing.T, dir string) {
	t.Helper()
	Git(t, dir, "init", "-q", "-b", "main")
	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-q", "-m", "initial commit")
}

// Git runs a git command in dir and returns trimmed stdout
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %v failed: %v: %s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// ScriptedPrompter answers Ask-mode conflicts from a fixed script and
// records every conflict it was asked about
type ScriptedPrompter struct {
	mu      sync.Mutex
	answers []copier.Choice
	Asked   []copier.Conflict
}

// NewScriptedPrompter returns a prompter that replies with answers in order
func NewScriptedPrompter(answers ...copier.Choice) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Choose implements copier.Prompter. It aborts once the script runs out.
func (p *ScriptedPrompter) Choose(c copier.Conflict) (copier.Choice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, c)
	if len(p.answers) == 0 {
		return copier.ChoiceAbort, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}
