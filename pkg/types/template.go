package types

// Template is one registered template. Pointer fields are optional
// overrides; nil means "inherit from the config".
type Template struct {
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	GitMode     *GitMode   `json:"git,omitempty"`
	Description string     `json:"description,omitempty"`
	PreInit     string     `json:"pre-init,omitempty"`
	PostInit    string     `json:"post-init,omitempty"`
	GitRef      string     `json:"git-ref,omitempty"`
	NoCache     *bool      `json:"no-cache,omitempty"`
	Exclude     []string   `json:"exclude,omitempty"`
	WriteMode   *WriteMode `json:"write-mode,omitempty"`
}

// Clone returns a deep copy so callers can edit a template without
// touching the registry's copy
func (t Template) Clone() Template {
	out := t
	if t.GitMode != nil {
		mode := *t.GitMode
		out.GitMode = &mode
	}
	if t.WriteMode != nil {
		mode := *t.WriteMode
		out.WriteMode = &mode
	}
	if t.NoCache != nil {
		noCache := *t.NoCache
		out.NoCache = &noCache
	}
	if t.Exclude != nil {
		out.Exclude = append([]string(nil), t.Exclude...)
	}
	return out
}

// Ptr returns a pointer to v. Handy for optional override fields.
func Ptr[T any](v T) *T {
	return &v
}
