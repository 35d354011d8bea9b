package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Strategy   string `toml:"strategy"`
	Threshold  *int   `toml:"threshold"`
	CountWidth int    `toml:"count_width"`
	Parity     string `toml:"parity"`
	ErrorMode  *bool  `toml:"error_mode"`
	Seed       uint64 `toml:"seed"`
	Output     string `toml:"output"`
	PrefsDir   string `toml:"prefs_dir"`
	Listen     string `toml:"listen"`
	LogLevel   string `toml:"log_level"`
	Workers    int    `toml:"workers"`
	Debounce   string `toml:"debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.framelab/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".framelab", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("strategy", fc.Strategy, &cfg.Strategy)
	s.setString("parity", fc.Parity, &cfg.Parity)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("prefs-dir", fc.PrefsDir, &cfg.PrefsDir)
	s.setString("listen", fc.Listen, &cfg.Listen)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setThreshold(fc.Threshold, &cfg.Threshold)
	s.setInt("count-width", fc.CountWidth, &cfg.CountWidth)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setUint64("seed", fc.Seed, &cfg.Seed)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("error-mode", fc.ErrorMode, &cfg.ErrorMode)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
