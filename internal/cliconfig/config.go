package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/bft-labs/framelab/internal/report"
	"github.com/bft-labs/framelab/pkg/framing"
	flog "github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/parity"
)

// DefaultListen is the default address for the serve command.
const DefaultListen = "127.0.0.1:8470"

// Config holds CLI configuration for framelab.
type Config struct {
	Strategy   string
	Threshold  int
	CountWidth int
	Parity     string

	ErrorMode bool
	// Seed drives error injection. Zero means seeded from the clock.
	Seed uint64

	Output   string
	PrefsDir string
	Listen   string
	LogLevel string

	Workers  int
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Strategy:   framing.BitStuffing.String(),
		Threshold:  framing.DefaultThreshold,
		CountWidth: framing.DefaultCountWidth,
		Parity:     "even",
		Output:     string(report.FormatText),
		PrefsDir:   "", // Derived from $HOME during Validate
		Listen:     DefaultListen,
		LogLevel:   "info",
		Workers:    runtime.NumCPU(),
		Debounce:   100 * time.Millisecond,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
// A threshold below 1 is not an error; framing clamps it.
func (c *Config) Validate() error {
	if _, err := framing.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := parity.ParseMode(c.Parity); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return err
	}
	if _, err := flog.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.CountWidth == 0 {
		c.CountWidth = framing.DefaultCountWidth
	}
	if c.CountWidth < 1 || c.CountWidth > framing.MaxCountWidth {
		return fmt.Errorf("count width must be in 1..%d, got %d", framing.MaxCountWidth, c.CountWidth)
	}

	if c.PrefsDir == "" {
		c.PrefsDir = DefaultPrefsDir()
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	return nil
}

// FramingStrategy returns the parsed strategy. Call after Validate.
func (c Config) FramingStrategy() framing.Strategy {
	s, _ := framing.ParseStrategy(c.Strategy)
	return s
}

// FramingOptions returns the framer options.
func (c Config) FramingOptions() framing.Options {
	return framing.Options{Threshold: c.Threshold, CountWidth: c.CountWidth}
}

// ParityMode returns the parsed parity mode. Call after Validate.
func (c Config) ParityMode() parity.Mode {
	m, _ := parity.ParseMode(c.Parity)
	return m
}

// Format returns the parsed output format. Call after Validate.
func (c Config) Format() report.Format {
	f, _ := report.ParseFormat(c.Output)
	return f
}

// DefaultPrefsDir returns ~/.framelab, or .framelab when the home
// directory is unknown.
func DefaultPrefsDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".framelab")
	}
	return ".framelab"
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setThreshold sets the stuffing threshold if present and flag not changed.
// Values below framing.MinThreshold are raised to it.
func (s *configSetter) setThreshold(value *int, dst *int) {
	if value == nil || s.changed["threshold"] {
		return
	}
	*dst, _ = framing.ClampThreshold(*value)
}

// setUint64 sets a uint64 value if non-zero and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setThresholdFromString is setThreshold for environment variables.
func (s *configSetter) setThresholdFromString(value string, dst *int) error {
	if value == "" || s.changed["threshold"] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse threshold: %w", err)
	}
	s.setThreshold(&i, dst)
	return nil
}

// setUint64FromString parses a string to uint64 and sets the destination.
func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = u
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
