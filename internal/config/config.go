// Package config loads the dashboard configuration from a YAML file,
// applying defaults for anything the file leaves out.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Sync   SyncConfig   `yaml:"sync"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	// URL is the HTTP base of the monitoring backend; the WebSocket
	// endpoint is derived from it.
	URL string `yaml:"url"`
}

type SyncConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	VerifyInterval  time.Duration `yaml:"verify_interval"`
	ChartWindow     int           `yaml:"chart_window"`
	AnalysisDays    int           `yaml:"analysis_days"`
}

type LogConfig struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	MaxSize int    `yaml:"max_size_mb"`
}

// TokenPath is where the session credential is persisted.
func TokenPath() string {
	return filepath.Join(stateDir(), "token")
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://127.0.0.1:8000",
		},
		Sync: SyncConfig{
			RefreshInterval: 30 * time.Second,
			VerifyInterval:  5 * time.Minute,
			ChartWindow:     50,
			AnalysisDays:    30,
		},
		Log: LogConfig{
			File:    filepath.Join(stateDir(), "slope-tui.log"),
			Level:   "info",
			MaxSize: 10,
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a present but unparseable file is an error.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "slopewatch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "slopewatch", "config.yaml")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "slopewatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "slopewatch")
}
