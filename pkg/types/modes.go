package types

import "fmt"

// GitMode selects how repository history is handled when a template is
// materialized
type GitMode int

const (
	// GitModeFresh copies the tree and records a single new commit
	GitModeFresh GitMode = iota
	// GitModePreserve clones the source so its history is kept
	GitModePreserve
	// GitModeNoGit copies the tree and creates no repository
	GitModeNoGit
)

var gitModeNames = map[GitMode]string{
	GitModeFresh:    "fresh",
	GitModePreserve: "preserve",
	GitModeNoGit:    "no-git",
}

// GitModes lists every git mode in declaration order
func GitModes() []GitMode {
	return []GitMode{GitModeFresh, GitModePreserve, GitModeNoGit}
}

func (m GitMode) String() string {
	if name, ok := gitModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("GitMode(%d)", int(m))
}

// ParseGitMode parses the text form of a git mode
func ParseGitMode(s string) (GitMode, error) {
	for mode, name := range gitModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid git mode %q (expected fresh, preserve or no-git)", s)
}

func (m GitMode) MarshalText() ([]byte, error) {
	if _, ok := gitModeNames[m]; !ok {
		return nil, fmt.Errorf("invalid git mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *GitMode) UnmarshalText(text []byte) error {
	parsed, err := ParseGitMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// WriteMode selects what happens when a destination path already exists
type WriteMode int

const (
	// WriteModeStrict requires an empty or absent target
	WriteModeStrict WriteMode = iota
	// WriteModeNoOverwrite fails before writing if anything would collide
	WriteModeNoOverwrite
	// WriteModeSkipOverwrite leaves colliding destination entries untouched
	WriteModeSkipOverwrite
	// WriteModeOverwrite replaces colliding destination entries
	WriteModeOverwrite
	// WriteModeAsk prompts for every collision
	WriteModeAsk
)

var writeModeNames = map[WriteMode]string{
	WriteModeStrict:        "strict",
	WriteModeNoOverwrite:   "no-overwrite",
	WriteModeSkipOverwrite: "skip-overwrite",
	WriteModeOverwrite:     "overwrite",
	WriteModeAsk:           "ask",
}

// WriteModes lists every write mode in declaration order
func WriteModes() []WriteMode {
	return []WriteMode{
		WriteModeStrict,
		WriteModeNoOverwrite,
		WriteModeSkipOverwrite,
		WriteModeOverwrite,
		WriteModeAsk,
	}
}

func (m WriteMode) String() string {
	if name, ok := writeModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("WriteMode(%d)", int(m))
}

// ParseWriteMode parses the text form of a write mode
func ParseWriteMode(s string) (WriteMode, error) {
	for mode, name := range writeModeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid write mode %q (expected strict, no-overwrite, skip-overwrite, overwrite or ask)", s)
}

func (m WriteMode) MarshalText() ([]byte, error) {
	if _, ok := writeModeNames[m]; !ok {
		return nil, fmt.Errorf("invalid write mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *WriteMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWriteMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UpdateOnInit selects when a template source is refreshed before init
type UpdateOnInit int

const (
	// UpdateAlways refreshes cached URL templates and local repositories
	UpdateAlways UpdateOnInit = iota
	// UpdateOnlyURL refreshes cached URL templates only
	UpdateOnlyURL
	// UpdateNever uses whatever is on disk
	UpdateNever
)

var updateOnInitNames = map[UpdateOnInit]string{
	UpdateAlways:  "always",
	UpdateOnlyURL: "only-url",
	UpdateNever:   "never",
}

func (u UpdateOnInit) String() string {
	if name, ok := updateOnInitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("UpdateOnInit(%d)", int(u))
}

// ParseUpdateOnInit parses the text form of an update-on-init policy
func ParseUpdateOnInit(s string) (UpdateOnInit, error) {
	for policy, name := range updateOnInitNames {
		if name == s {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("invalid update-on-init value %q (expected always, only-url or never)", s)
}

func (u UpdateOnInit) MarshalText() ([]byte, error) {
	if _, ok := updateOnInitNames[u]; !ok {
		return nil, fmt.Errorf("invalid update-on-init value %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *UpdateOnInit) UnmarshalText(text []byte) error {
	parsed, err := ParseUpdateOnInit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
