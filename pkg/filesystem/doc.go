// Package filesystem provides implementations of types.FS: the real OS
// filesystem used by the CLI and an afero-backed one for alternative
// backends and tests.
package filesystem
