// Package config handles service configuration loading.
package config

import "time"

// Config holds all service settings.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Simulation SimulationConfig `yaml:"simulation"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the SQLite database location. An empty path disables
// persistence; the service then runs with the in-memory store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SimulationConfig holds sensor simulator settings.
type SimulationConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// MeshConfig holds mesh generation defaults. EnableCSG wires the volumetric
// wall carver; individual requests still opt in per call.
type MeshConfig struct {
	WallHeight    float64 `yaml:"wall_height"`
	WallThickness float64 `yaml:"wall_thickness"`
	EnableCSG     bool    `yaml:"enable_csg"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5050,
		},
		Database: DatabaseConfig{
			Path: "twinmesh.db",
		},
		Simulation: SimulationConfig{
			Interval: 2 * time.Second,
		},
		Mesh: MeshConfig{
			WallHeight:    2.8,
			WallThickness: 0.12,
			EnableCSG:     false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
