// Package types defines the value types shared across templative: the
// registered Template and the closed enums that select git handling,
// write-conflict policy and cache refresh behaviour.
package types
