package change

import (
	"strconv"

	"github.com/Serenacula/templative/pkg/commands/add"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/exclude"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// None clears an optional field so the template inherits the config again
const None = "none"

// Changes holds the requested edits. A nil field is left unchanged; the
// value None clears an optional field.
type Changes struct {
	Name        *string
	Description *string
	Location    *string
	GitMode     *string
	PreInit     *string
	PostInit    *string
	GitRef      *string
	NoCache     *string
	WriteMode   *string
	// Exclude replaces the template's list; a single None clears it
	Exclude []string
}

// Empty reports whether no change was requested
func (c Changes) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Location == nil &&
		c.GitMode == nil && c.PreInit == nil && c.PostInit == nil &&
		c.GitRef == nil && c.NoCache == nil && c.WriteMode == nil && c.Exclude == nil
}

// ChangeOptions defines the options for the Change command
type ChangeOptions struct {
	Paths   *paths.Paths
	Name    string
	Changes Changes
}

// ChangeResult is the template after the edit
type ChangeResult struct {
	OldName  string
	Template types.Template
}

// Change edits a registered template field by field
func Change(opts ChangeOptions) (*ChangeResult, error) {
	log := logging.GetLogger("commands.change")
	log.Debug().Str("command", "Change").Str("name", opts.Name).Msg("Executing command")

	if opts.Changes.Empty() {
		return nil, errors.New(errors.ErrInvalidInput, "no changes specified")
	}

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}
	tmpl, err := reg.Get(opts.Name)
	if err != nil {
		return nil, err
	}

	if err := apply(&tmpl, opts.Changes); err != nil {
		return nil, err
	}

	if err := reg.Replace(opts.Name, tmpl); err != nil {
		return nil, err
	}
	if err := reg.Save(); err != nil {
		return nil, err
	}

	log.Info().Str("command", "Change").Str("name", tmpl.Name).Msg("Command finished")
	return &ChangeResult{OldName: opts.Name, Template: tmpl}, nil
}

func apply(tmpl *types.Template, c Changes) error {
	if c.Name != nil {
		if *c.Name == "" || *c.Name == None {
			return errors.Newf(errors.ErrInvalidInput, "invalid template name %q", *c.Name)
		}
		tmpl.Name = *c.Name
	}
	if c.Location != nil {
		if paths.IsGitURL(*c.Location) {
			tmpl.Location = *c.Location
		} else {
			canonical, err := add.CanonicalLocation(*c.Location)
			if err != nil {
				return err
			}
			tmpl.Location = canonical
		}
	}

	setString(&tmpl.Description, c.Description)
	setString(&tmpl.PreInit, c.PreInit)
	setString(&tmpl.PostInit, c.PostInit)
	setString(&tmpl.GitRef, c.GitRef)

	if c.GitMode != nil {
		if *c.GitMode == None {
			tmpl.GitMode = nil
		} else {
			mode, err := types.ParseGitMode(*c.GitMode)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid --git value")
			}
			tmpl.GitMode = &mode
		}
	}
	if c.WriteMode != nil {
		if *c.WriteMode == None {
			tmpl.WriteMode = nil
		} else {
			mode, err := types.ParseWriteMode(*c.WriteMode)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid --write-mode value")
			}
			tmpl.WriteMode = &mode
		}
	}
	if c.NoCache != nil {
		if *c.NoCache == None {
			tmpl.NoCache = nil
		} else {
			v, err := strconv.ParseBool(*c.NoCache)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid --no-cache value %q", *c.NoCache)
			}
			tmpl.NoCache = &v
		}
	}
	if c.Exclude != nil {
		if len(c.Exclude) == 1 && c.Exclude[0] == None {
			tmpl.Exclude = nil
		} else {
			if _, err := exclude.Compile(c.Exclude); err != nil {
				return err
			}
			tmpl.Exclude = append([]string(nil), c.Exclude...)
		}
	}
	return nil
}

func setString(field *string, value *string) {
	if value == nil {
		return
	}
	if *value == None {
		*field = ""
		return
	}
	*field = *value
}
