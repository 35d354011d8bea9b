// Package parity appends and checks one parity bit per byte-group.
//
// With Even parity the parity bit makes the number of ones in
// group+parity even; with Odd parity it makes it odd. A single flipped bit
// anywhere in a group, including the parity bit itself, always changes
// the count by one and is detected by Check under either mode. Two flips
// in the same group cancel out and are never detected; parity only
// guarantees detection of an odd number of errors per group.
package parity

import (
	"fmt"
	"strings"

	"github.com/bft-labs/framelab/internal/domain"
)

// BitString is re-exported from the domain package.
type BitString = domain.BitString

// ErrMalformedBitString is returned for non-binary input.
var ErrMalformedBitString = domain.ErrMalformedBitString

// Mode selects even or odd parity.
type Mode int

const (
	Even Mode = iota
	Odd
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case Even:
		return "Even"
	case Odd:
		return "Odd"
	default:
		return "Unknown"
	}
}

func checkMode(m Mode) error {
	if m != Even && m != Odd {
		return fmt.Errorf("parity: unknown mode %d", int(m))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if err := checkMode(m); err != nil {
		return nil, err
	}
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode accepts "even"/"odd" or the menu index "0"/"1".
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "even":
		return Even, nil
	case "1", "odd":
		return Odd, nil
	default:
		return 0, fmt.Errorf("parity: unknown mode %q", raw)
	}
}

// Bit returns the parity bit ('0' or '1') for a group under mode. Any
// mode other than Even is computed as Odd; Apply and Verify reject
// unknown modes before calling it.
func Bit(group BitString, mode Mode) byte {
	odd := group.Ones()%2 == 1
	if mode == Even {
		if odd {
			return '1'
		}
		return '0'
	}
	if odd {
		return '0'
	}
	return '1'
}

// Result is the sender side output of Apply.
type Result struct {
	Mode Mode `json:"mode" yaml:"mode"`

	// Groups are the payload byte-groups in order.
	Groups []BitString `json:"groups" yaml:"groups"`

	// Encoded holds every group followed by its parity bit, groups
	// separated by a space.
	Encoded BitString `json:"encoded" yaml:"encoded"`

	// ParityBits holds the parity bits alone, one per group.
	// Encoders use ParityString.
	ParityBits []byte `json:"-" yaml:"-"`
}

// ParityString returns the parity bits separated by spaces.
func (r Result) ParityString() string {
	parts := make([]string, len(r.ParityBits))
	for i, b := range r.ParityBits {
		parts[i] = string(b)
	}
	return strings.Join(parts, " ")
}

// Split partitions payload into byte-groups: on spaces when the payload
// contains any, otherwise at a fixed 8-bit stride. Either way the last
// group may hold fewer than 8 bits.
func Split(payload BitString) ([]BitString, error) {
	if err := payload.ValidateGrouped(); err != nil {
		return nil, err
	}
	if strings.IndexByte(string(payload), domain.Separator) >= 0 {
		return payload.Fields(), nil
	}
	return payload.Groups(domain.ByteSize), nil
}

// Apply appends a parity bit to every byte-group of payload. A short last
// group gets a parity bit over the bits it has.
func Apply(payload BitString, mode Mode) (Result, error) {
	if err := checkMode(mode); err != nil {
		return Result{}, err
	}
	groups, err := Split(payload)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Mode:       mode,
		Groups:     groups,
		ParityBits: make([]byte, len(groups)),
	}

	var sb strings.Builder
	sb.Grow(len(payload) + 2*len(groups))
	for i, g := range groups {
		p := Bit(g, mode)
		res.ParityBits[i] = p
		if i > 0 {
			sb.WriteByte(domain.Separator)
		}
		sb.WriteString(string(g))
		sb.WriteByte(p)
	}
	res.Encoded = BitString(sb.String())
	return res, nil
}
