// Package config loads and saves templative's process-wide defaults.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. built-in defaults (embedded/defaults.json)
//  2. the user's config.json (comments allowed)
//  3. TEMPLATIVE_* environment variables, e.g. TEMPLATIVE_WRITE_MODE=ask
//
// A config.json whose version is newer than CurrentVersion is rejected.
package config
