package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the parqr configuration file (~/.config/parqr/config.yaml).
// Numeric fields are pointers to distinguish "not set" from zero.
type Config struct {
	Alpha   *int64 `yaml:"alpha"`
	Beta    *int64 `yaml:"beta"`
	Workers *int64 `yaml:"workers"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "parqr", "config.yaml")
}

// loadConfig reads the config file if present. A missing file is not an
// error; a malformed one is.
func loadConfig() (Config, error) {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyTilingConfig fills tiling variables from the config file for flags
// the user did not set on the command line.
func applyTilingConfig(c *cli.Command, cfg Config) {
	if cfg.Alpha != nil && !c.IsSet("alpha") {
		alpha = *cfg.Alpha
	}
	if cfg.Beta != nil && !c.IsSet("beta") {
		beta = *cfg.Beta
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
}
