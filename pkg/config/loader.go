package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TEMPLATIVE_"

// Load reads the config at path layered over the built-in defaults and
// under TEMPLATIVE_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	defaults, err := Parser().Unmarshal(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse built-in defaults")
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User file
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse config %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config %s", path)
	}

	// The version gate looks at the file alone so env cannot mask it
	if version := k.Int("version"); version > CurrentVersion {
		return nil, errors.Newf(errors.ErrUnsupportedConfigVersion,
			"config version %d is newer than supported version %d: upgrade templative", version, CurrentVersion).
			WithDetail("path", path)
	}

	// 3. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "invalid config %s", path)
	}

	return &cfg, nil
}

// LoadOrCreate loads the config at path, writing the defaults there first
// if the file does not exist yet
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Default().Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	return Load(path)
}
