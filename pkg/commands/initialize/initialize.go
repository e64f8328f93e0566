package initialize

import (
	"context"
	"io"

	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/copier"
	"github.com/Serenacula/templative/pkg/git"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/materialize"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/registry"
)

// InitOptions defines the options for the Init command
type InitOptions struct {
	Paths *paths.Paths
	// Config is loaded from Paths when nil
	Config *config.Config
	// Git defaults to the git binary on PATH
	Git        *git.Client
	Prompter   copier.Prompter
	HookOutput io.Writer

	TemplateName string
	// Target defaults to the current directory
	Target string
	Flags  options.Flags
}

// Init materializes a registered template into a target directory
func Init(ctx context.Context, opts InitOptions) (*materialize.Result, error) {
	log := logging.GetLogger("commands.init")
	log.Debug().Str("command", "Init").Str("template", opts.TemplateName).Str("target", opts.Target).Msg("Executing command")

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadOrCreate(opts.Paths.ConfigFile())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	reg, err := registry.Load(opts.Paths.RegistryFile())
	if err != nil {
		return nil, err
	}

	target := opts.Target
	if target == "" {
		target = "."
	}

	svc := materialize.New(materialize.Options{
		Config:     cfg,
		Registry:   reg,
		Paths:      opts.Paths,
		Git:        opts.Git,
		Prompter:   opts.Prompter,
		HookOutput: opts.HookOutput,
	})
	result, err := svc.Materialize(ctx, materialize.Request{
		TemplateName: opts.TemplateName,
		Target:       target,
		Flags:        opts.Flags,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Init").Str("template", opts.TemplateName).Str("target", result.Target).Msg("Command finished")
	return result, nil
}
