package config

import (
	_ "embed"
	"encoding/json"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/Serenacula/templative/pkg/utils"
)

// CurrentVersion is the newest config schema this build understands
const CurrentVersion = 1

//go:embed embedded/defaults.json
var defaultConfig []byte

// Config holds the process-wide defaults every template inherits
type Config struct {
	Version      int                `koanf:"version" json:"version"`
	GitMode      types.GitMode      `koanf:"git" json:"git"`
	Exclude      []string           `koanf:"exclude" json:"exclude"`
	WriteMode    types.WriteMode    `koanf:"write-mode" json:"write-mode"`
	Color        bool               `koanf:"color" json:"color"`
	UpdateOnInit types.UpdateOnInit `koanf:"update-on-init" json:"update-on-init"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version:      CurrentVersion,
		GitMode:      types.GitModeFresh,
		Exclude:      []string{"node_modules", ".DS_Store"},
		WriteMode:    types.WriteModeStrict,
		Color:        true,
		UpdateOnInit: types.UpdateOnlyURL,
	}
}

// Save writes the config to path atomically
func (c *Config) Save(path string) error {
	logger := logging.GetLogger("config")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to serialize config")
	}
	data = append(data, '\n')

	if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write config %s", path)
	}
	logger.Debug().Str("path", path).Msg("Config saved")
	return nil
}
