// Package config loads promemoria settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultDir is the per-user directory holding config and snapshot.
	DefaultDir         = "~/.promemoria"
	DefaultConfigFile  = "config.toml"
	DefaultStoreFile   = "promemoria.json"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultMaxAttempts = 5
)

// Config holds every tunable of the program.
type Config struct {
	StoreFile        string `toml:"store_file"`
	ExportDir        string `toml:"export_dir"`
	ExportFormat     string `toml:"export_format"`
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
	Color            bool   `toml:"color"`
	ToggleCompletion bool   `toml:"toggle_completion"`
	SaveAfterChange  bool   `toml:"save_after_change"`
	// MaxAttempts bounds re-prompting on invalid input; 0 means until input ends.
	MaxAttempts int `toml:"max_attempts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StoreFile:    filepath.Join(DefaultDir, DefaultStoreFile),
		ExportDir:    filepath.Join(DefaultDir, "exports"),
		ExportFormat: "yaml",
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Color:        true,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return ExpandPath(filepath.Join(DefaultDir, DefaultConfigFile))
}

// Load applies the TOML file at path over the defaults. An empty path reads
// DefaultPath and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return finalize(cfg)
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	def := Default()
	if strings.TrimSpace(cfg.StoreFile) == "" {
		cfg.StoreFile = def.StoreFile
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		cfg.ExportDir = def.ExportDir
	}
	cfg.StoreFile = ExpandPath(cfg.StoreFile)
	cfg.ExportDir = ExpandPath(cfg.ExportDir)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q (use debug|info|warn|error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (use text|json|logfmt)", c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.ExportFormat)) {
	case "yaml", "yml", "json":
	default:
		return fmt.Errorf("invalid export_format %q (use yaml|json)", c.ExportFormat)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("invalid max_attempts %d", c.MaxAttempts)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
