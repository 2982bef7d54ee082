// Package daemon manages the questlog daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API          APIConfig          `toml:"api"`
	Storage      StorageConfig      `toml:"storage"`
	Gamification GamificationConfig `toml:"gamification"`
	Logging      LoggingConfig      `toml:"logging"`
	Telemetry    TelemetryConfig    `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where the SQLite database lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// GamificationConfig tunes the engine.
type GamificationConfig struct {
	// StreakLookbackDays bounds how far back streak derivation reads
	// activity. Must exceed the longest streak achievement.
	StreakLookbackDays int `toml:"streak_lookback_days"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := questlogHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7432,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: homeDir,
		},
		Gamification: GamificationConfig{
			StreakLookbackDays: 120,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "questlog.log"),
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.questlog/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(questlogHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.questlog/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(questlogHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// questlogHome returns the questlog data directory.
func questlogHome() string {
	if env := os.Getenv("QUESTLOG_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".questlog")
}

// QuestlogHome is exported for use by other packages.
func QuestlogHome() string {
	return questlogHome()
}
