package parity

import (
	"fmt"
	"strings"

	"github.com/bft-labs/framelab/internal/domain"
)

// GroupCheck is the receiver's verdict on one received group.
type GroupCheck struct {
	Data     BitString `json:"data" yaml:"data"`
	Parity   string    `json:"parity" yaml:"parity"`
	Expected string    `json:"expected" yaml:"expected"`
	OK       bool      `json:"ok" yaml:"ok"`
}

// Check is the receiver side result of verifying parity.
type Check struct {
	Mode       Mode         `json:"mode" yaml:"mode"`
	Groups     []GroupCheck `json:"groups" yaml:"groups"`
	Mismatches []int        `json:"mismatches" yaml:"mismatches"`
}

// OK reports whether every group passed.
func (c Check) OK() bool {
	return len(c.Mismatches) == 0
}

// Verify treats the last bit of every space-separated group in received
// as its parity bit and recomputes it over the rest.
func Verify(received BitString, mode Mode) (Check, error) {
	if err := checkMode(mode); err != nil {
		return Check{}, err
	}
	if err := received.ValidateGrouped(); err != nil {
		return Check{}, err
	}
	fields := received.Fields()
	c := Check{Mode: mode, Groups: make([]GroupCheck, 0, len(fields))}
	for i, f := range fields {
		if len(f) < 2 {
			return Check{}, fmt.Errorf("%w: group %d has no data bits", ErrMalformedBitString, i)
		}
		data := f[:len(f)-1]
		got := f[len(f)-1]
		want := Bit(data, mode)
		gc := GroupCheck{
			Data:     data,
			Parity:   string(got),
			Expected: string(want),
			OK:       got == want,
		}
		if !gc.OK {
			c.Mismatches = append(c.Mismatches, i)
		}
		c.Groups = append(c.Groups, gc)
	}
	return c, nil
}

// Strip removes the parity bit from every group of received.
func Strip(received BitString) (BitString, error) {
	if err := received.ValidateGrouped(); err != nil {
		return "", err
	}
	fields := received.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		if len(f) == 0 {
			continue
		}
		parts[i] = string(f[:len(f)-1])
	}
	return BitString(strings.Join(parts, string(domain.Separator))), nil
}
