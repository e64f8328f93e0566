// Package git wraps the git binary. templative never touches repository
// internals itself: every clone, fetch, checkout and commit is a git
// subprocess, and failures carry git's stderr.
package git
