package prefs

import (
	"context"
	"fmt"

	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
)

// Prefs is the persisted user state.
type Prefs struct {
	// ErrorMode is the channel error-injection toggle.
	ErrorMode bool `json:"error_mode"`

	// Parity is the parity mode name ("even" or "odd"). Empty means unset.
	Parity string `json:"parity,omitempty"`

	// Strategy is the framing strategy name. Empty means unset.
	Strategy string `json:"strategy,omitempty"`

	// Threshold is the bit-stuffing threshold. Zero means unset.
	Threshold int `json:"threshold,omitempty"`
}

// Validate checks that the stored names parse.
func (p Prefs) Validate() error {
	if p.Parity != "" {
		if _, err := parity.ParseMode(p.Parity); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}
	if p.Strategy != "" {
		if _, err := framing.ParseStrategy(p.Strategy); err != nil {
			return fmt.Errorf("prefs: %w", err)
		}
	}
	if p.Threshold < 0 {
		return fmt.Errorf("prefs: threshold must be >= 0, got %d", p.Threshold)
	}
	return nil
}

// Repository handles preference persistence.
type Repository interface {
	// Load retrieves the saved preferences.
	// Returns zero Prefs and nil error if nothing was saved yet.
	Load(ctx context.Context) (Prefs, error)

	// Save persists p atomically.
	Save(ctx context.Context, p Prefs) error
}
