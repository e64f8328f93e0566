// Package testutil provides fixtures for testing templative components.
//
// Key components:
//   - TestEnvironment: isolated HOME, config and cache dirs, either on a
//     real temp directory or an in-memory afero filesystem
//   - FileTree helpers: declare a tree inline, write it, read it back
//   - Git helpers: repositories with commits, identity isolation
//   - ScriptedPrompter: canned answers for Ask-mode conflicts
//
// All test data is defined inline; nothing is read from external files.
package testutil
