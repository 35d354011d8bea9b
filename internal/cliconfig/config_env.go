package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (FRAMELAB_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("strategy", os.Getenv("FRAMELAB_STRATEGY"), &cfg.Strategy)
	s.setString("parity", os.Getenv("FRAMELAB_PARITY"), &cfg.Parity)
	s.setString("output", os.Getenv("FRAMELAB_OUTPUT"), &cfg.Output)
	s.setString("prefs-dir", os.Getenv("FRAMELAB_PREFS_DIR"), &cfg.PrefsDir)
	s.setString("listen", os.Getenv("FRAMELAB_LISTEN"), &cfg.Listen)
	s.setString("log-level", os.Getenv("FRAMELAB_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setThresholdFromString(os.Getenv("FRAMELAB_THRESHOLD"), &cfg.Threshold); err != nil {
		return err
	}
	if err := s.setIntFromString("count-width", os.Getenv("FRAMELAB_COUNT_WIDTH"), &cfg.CountWidth); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("FRAMELAB_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setUint64FromString("seed", os.Getenv("FRAMELAB_SEED"), &cfg.Seed); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("FRAMELAB_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("error-mode", os.Getenv("FRAMELAB_ERROR_MODE"), &cfg.ErrorMode)

	return nil
}
