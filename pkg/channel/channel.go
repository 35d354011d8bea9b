// Package channel simulates a noisy transmission channel that may flip a
// single bit of a transmitted bit sequence.
//
// Randomness comes from an injected Source so runs are reproducible:
//
//	ch := channel.New(true, channel.NewSource(42))
//	out := ch.Transmit("01000001 01000010")
package channel

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/log"
)

// Source picks uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG-backed Source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Injection is the outcome of passing bits through the channel.
type Injection struct {
	// Bits is what the receiver gets.
	Bits string `json:"bits" yaml:"bits"`

	// Position is the index of the flipped character in Bits, or -1.
	Position int `json:"position" yaml:"position"`

	// Flipped reports whether a bit was changed.
	Flipped bool `json:"flipped" yaml:"flipped"`
}

// Eligible returns the indices of bits that hold '0' or '1'. Separators
// and any other characters are skipped.
func Eligible(bits string) []int {
	out := make([]int, 0, len(bits))
	for i := 0; i < len(bits); i++ {
		if c := bits[i]; c == '0' || c == '1' {
			out = append(out, i)
		}
	}
	return out
}

// Inject flips one uniformly chosen data bit of bits when enabled is true.
// With nothing eligible, when disabled, or when src is nil, bits is
// returned unchanged and Flipped is false.
func Inject(bits string, enabled bool, src Source) Injection {
	res := Injection{Bits: bits, Position: -1}
	if !enabled || src == nil {
		return res
	}
	positions := Eligible(bits)
	if len(positions) == 0 {
		return res
	}

	pos := positions[src.IntN(len(positions))]
	buf := []byte(bits)
	buf[pos] = domain.Flip(buf[pos])

	res.Bits = string(buf)
	res.Position = pos
	res.Flipped = true
	return res
}

// Channel carries bit sequences from sender to receiver.
// It is safe for concurrent use.
type Channel struct {
	mu      sync.Mutex
	enabled bool
	src     Source
	logger  log.Logger
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger sets the logger used to report injected errors.
func WithLogger(logger log.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// New creates a channel. When enabled is true every transmission has one
// bit flipped. A nil src is replaced by a clock-seeded source.
func New(enabled bool, src Source, opts ...Option) *Channel {
	if src == nil {
		src = NewSource(uint64(time.Now().UnixNano()))
	}
	c := &Channel{
		enabled: enabled,
		src:     src,
		logger:  log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether errors are injected.
func (c *Channel) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled toggles error injection.
func (c *Channel) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// Transmit passes bits through the channel.
func (c *Channel) Transmit(bits string) Injection {
	c.mu.Lock()
	res := Inject(bits, c.enabled, c.src)
	c.mu.Unlock()
	if res.Flipped {
		c.logger.Debug("error introduced", log.Int("position", res.Position))
	}
	return res
}
