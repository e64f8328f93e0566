// Package options merges the config, a template's overrides and the
// command-line flags into the single policy one init run uses.
//
// Scalars resolve flag > template > config. Exclude is the config list
// followed by the template's list; template patterns never replace the
// config's.
package options

import (
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/types"
)

// Flags carries per-invocation overrides; nil means "not given"
type Flags struct {
	GitMode   *types.GitMode
	WriteMode *types.WriteMode
}

// ResolvedOptions is the effective policy for one materialization
type ResolvedOptions struct {
	GitMode      types.GitMode
	WriteMode    types.WriteMode
	Exclude      []string
	PreInit      string
	PostInit     string
	GitRef       string
	NoCache      bool
	UpdateOnInit types.UpdateOnInit
}

// Resolve computes the effective options. It performs no I/O and cannot fail.
func Resolve(cfg *config.Config, tmpl *types.Template, flags Flags) ResolvedOptions {
	resolved := ResolvedOptions{
		GitMode:      cfg.GitMode,
		WriteMode:    cfg.WriteMode,
		Exclude:      append([]string(nil), cfg.Exclude...),
		UpdateOnInit: cfg.UpdateOnInit,
	}

	if tmpl != nil {
		if tmpl.GitMode != nil {
			resolved.GitMode = *tmpl.GitMode
		}
		if tmpl.WriteMode != nil {
			resolved.WriteMode = *tmpl.WriteMode
		}
		if tmpl.NoCache != nil {
			resolved.NoCache = *tmpl.NoCache
		}
		resolved.Exclude = append(resolved.Exclude, tmpl.Exclude...)
		resolved.PreInit = tmpl.PreInit
		resolved.PostInit = tmpl.PostInit
		resolved.GitRef = tmpl.GitRef
	}

	if flags.GitMode != nil {
		resolved.GitMode = *flags.GitMode
	}
	if flags.WriteMode != nil {
		resolved.WriteMode = *flags.WriteMode
	}

	return resolved
}
