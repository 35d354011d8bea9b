package cliconfig

import "github.com/bft-labs/framelab/pkg/prefs"

// ApplyPrefs applies saved preferences. They sit just above the defaults:
// call it before ApplyFileConfig so the file, env and flags win.
func ApplyPrefs(cfg *Config, p prefs.Prefs, changed map[string]bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s := newConfigSetter(changed)

	errorMode := p.ErrorMode
	s.setBool("error-mode", &errorMode, &cfg.ErrorMode)
	s.setString("parity", p.Parity, &cfg.Parity)
	s.setString("strategy", p.Strategy, &cfg.Strategy)
	s.setInt("threshold", p.Threshold, &cfg.Threshold)

	return nil
}

// Prefs captures the persisted subset of cfg.
func (c Config) Prefs() prefs.Prefs {
	return prefs.Prefs{
		ErrorMode: c.ErrorMode,
		Parity:    c.Parity,
		Strategy:  c.Strategy,
		Threshold: c.Threshold,
	}
}
