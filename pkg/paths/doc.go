// Package paths centralizes templative's on-disk locations and the pure
// path predicates used before any filesystem mutation: git URL detection,
// dangerous-target refusal and empty-directory checks.
//
// Directories follow the XDG Base Directory specification via adrg/xdg and
// can be overridden with TEMPLATIVE_CONFIG_DIR and TEMPLATIVE_CACHE_DIR.
package paths
