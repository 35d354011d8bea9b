package framing

import (
	"fmt"
	"strings"
)

// Strategy selects how a payload is delimited.
type Strategy int

const (
	CountPrefix Strategy = iota
	ByteStuffing
	BitStuffing
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case CountPrefix:
		return "count"
	case ByteStuffing:
		return "byte-stuffing"
	case BitStuffing:
		return "bit-stuffing"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s < CountPrefix || s > BitStuffing {
		return nil, fmt.Errorf("framing: unknown strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStrategy accepts a strategy name or its menu index (0, 1, 2).
func ParseStrategy(raw string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "count", "char-count", "character-count", "count-prefix":
		return CountPrefix, nil
	case "1", "byte", "byte-stuffing":
		return ByteStuffing, nil
	case "2", "bit", "bit-stuffing":
		return BitStuffing, nil
	default:
		return 0, fmt.Errorf("framing: unknown strategy %q", raw)
	}
}
