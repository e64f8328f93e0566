package remove

import (
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
)

// RemoveOptions defines the options for the Remove command
type RemoveOptions struct {
	Paths *paths.Paths
	Names []string
}

// RemoveResult lists the removed templates
type RemoveResult struct {
	Removed []string
}

// Remove deregisters templates. Either every name is removed or, if any
// is unknown, none is. Files on disk and cached clones are left alone.
func Remove(opts RemoveOptions) (*RemoveResult, error) {
	log := logging.GetLogger("commands.remove")
	log.Debug().Str("command", "Remove").Strs("names", opts.Names).Msg("Executing command")

	if len(opts.Names) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no template names given")
	}

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}

	for _, name := range opts.Names {
		if err := reg.Remove(name); err != nil {
			return nil, err
		}
	}
	if err := reg.Save(); err != nil {
		return nil, err
	}

	log.Info().Str("command", "Remove").Int("count", len(opts.Names)).Msg("Command finished")
	return &RemoveResult{Removed: append([]string(nil), opts.Names...)}, nil
}
