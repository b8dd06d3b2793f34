// Package config loads battle configuration with viper: built-in defaults,
// an optional json/yaml/toml file and ARMYSIM_ environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Garsondee/Army-Command/internal/game"
)

// EnvPrefix prefixes every environment override, e.g. ARMYSIM_GRIDSIZE or
// ARMYSIM_SENSOR_MISIDENTIFYPROB.
const EnvPrefix = "ARMYSIM"

// Load reads configuration and validates it. path may be empty, in which case
// only defaults and environment overrides apply.
func Load(path string) (game.Config, error) {
	if err := setDefaults(game.DefaultConfig()); err != nil {
		return game.Config{}, err
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return game.Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg game.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return game.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every field of def under its json name so partial
// files and single env vars override one leaf at a time.
func setDefaults(def game.Config) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	for k, v := range tree {
		viper.SetDefault(k, v)
	}
	return nil
}

// ConfigFileUsed reports the file Load read, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
