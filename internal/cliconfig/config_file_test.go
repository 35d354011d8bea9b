package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false
	four, seven, zero, minusTwo := 4, 7, 0, -2

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Strategy:   "byte",
				Threshold:  &four,
				CountWidth: 12,
				Parity:     "odd",
				ErrorMode:  &trueVal,
				Seed:       9,
				Output:     "yaml",
				PrefsDir:   "/file/prefs",
				Listen:     ":8080",
				LogLevel:   "warn",
				Workers:    2,
				Debounce:   "1s",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Strategy:   "byte",
				Threshold:  4,
				CountWidth: 12,
				Parity:     "odd",
				ErrorMode:  true,
				Seed:       9,
				Output:     "yaml",
				PrefsDir:   "/file/prefs",
				Listen:     ":8080",
				LogLevel:   "warn",
				Workers:    2,
				Debounce:   time.Second,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Strategy:  "count",
				Threshold: &seven,
				ErrorMode: &falseVal,
			},
			changed: map[string]bool{"strategy": true, "error-mode": true},
			initial: Config{
				Strategy:  "bit",
				ErrorMode: true,
			},
			expected: Config{
				Strategy:  "bit", // unchanged because flag was set
				Threshold: 7,
				ErrorMode: true,
			},
		},
		{
			name: "zero values leave defaults alone",
			fileConfig: FileConfig{
				Workers: -1,
			},
			changed:  map[string]bool{},
			initial:  Config{Threshold: 5, Workers: 8},
			expected: Config{Threshold: 5, Workers: 8},
		},
		{
			name:       "zero threshold is clamped",
			fileConfig: FileConfig{Threshold: &zero},
			changed:    map[string]bool{},
			initial:    Config{Threshold: 5},
			expected:   Config{Threshold: 1},
		},
		{
			name:       "negative threshold is clamped",
			fileConfig: FileConfig{Threshold: &minusTwo},
			changed:    map[string]bool{},
			initial:    Config{Threshold: 5},
			expected:   Config{Threshold: 1},
		},
		{
			name:       "threshold flag wins over file",
			fileConfig: FileConfig{Threshold: &minusTwo},
			changed:    map[string]bool{"threshold": true},
			initial:    Config{Threshold: 3},
			expected:   Config{Threshold: 3},
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				Debounce: "soon",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
strategy = "bit-stuffing"
threshold = 3
parity = "odd"
error_mode = true
seed = 1234
debounce = "250ms"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Strategy != "bit-stuffing" {
		t.Errorf("Strategy = %v, want bit-stuffing", fc.Strategy)
	}
	if fc.Threshold == nil || *fc.Threshold != 3 {
		t.Errorf("Threshold = %v, want 3", fc.Threshold)
	}
	if fc.Parity != "odd" {
		t.Errorf("Parity = %v, want odd", fc.Parity)
	}
	if fc.ErrorMode == nil || !*fc.ErrorMode {
		t.Errorf("ErrorMode = %v, want true", fc.ErrorMode)
	}
	if fc.Seed != 1234 {
		t.Errorf("Seed = %v, want 1234", fc.Seed)
	}
	if fc.Debounce != "250ms" {
		t.Errorf("Debounce = %v, want 250ms", fc.Debounce)
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.toml")

	if err := os.WriteFile(configPath, []byte("strategy = "), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p == "" {
		t.Skip("no home directory")
	}
	if !strings.HasSuffix(p, filepath.Join(".framelab", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %v", p)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "x")
	if FileExists(p) {
		t.Error("FileExists() = true for missing file")
	}
	if err := os.WriteFile(p, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(p) {
		t.Error("FileExists() = false for existing file")
	}
}
