// Package registry persists the set of registered templates in
// templates.json. Names are unique; add and rename reject duplicates.
// The file is rewritten atomically on every save.
package registry
