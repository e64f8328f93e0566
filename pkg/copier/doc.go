// Package copier materializes a template tree into a destination.
//
// A single depth-first traversal (walk) serves both the dry pre-flight,
// which collects collisions and checks symlink support before anything is
// written, and the live copy. Symlinks are leaves: they are recreated
// through RewriteTarget and never followed. The top-level .git directory
// is never copied.
//
// Collisions are settled by the write mode. Ask mode defers to an injected
// Prompter; "Overwrite all" and "Skip all" answers escalate the session
// mode for the rest of the run.
package copier
