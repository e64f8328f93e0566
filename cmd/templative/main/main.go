package main

import (
	"os"

	"github.com/Serenacula/templative/cmd/templative"
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/ui"
)

func main() {
	rootCmd := templative.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// a broken config must not stop the error itself from printing
		color := true
		if cfg, cfgErr := config.Load(paths.New().ConfigFile()); cfgErr == nil {
			color = cfg.Color
		}
		printer := ui.NewPrinter(os.Stderr, ui.ColorEnabled(os.Stderr, color))
		printer.Error(errors.Chain(err))
		os.Exit(1)
	}
}
