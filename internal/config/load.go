package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	flagConfig = flag.String("config", "", "path to config file")
	flagPort   = flag.Int("port", 0, "override server port")
	flagDB     = flag.String("db", "", "override database path")
	flagLevel  = flag.String("log-level", "", "override log level")
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	path := *flagConfig
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	for _, candidate := range []string{"./config.yaml", "./twinmesh.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyFlags applies CLI flag overrides (highest priority).
func applyFlags(cfg *Config) {
	if *flagPort != 0 {
		cfg.Server.Port = *flagPort
	}
	if *flagDB != "" {
		cfg.Database.Path = *flagDB
	}
	if *flagLevel != "" {
		cfg.Logging.Level = *flagLevel
	}
}
