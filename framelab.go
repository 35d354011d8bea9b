// Package framelab implements the data-link layer basics of a networking
// walkthrough: text to bit encoding, three framing strategies with their
// receivers, per-byte parity, and a channel that may flip a single bit.
//
// Example usage:
//
//	payload, err := framelab.Encode("Hi")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := framelab.Frame(payload, framelab.BitStuffing, framelab.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	got, err := framelab.Deframe(res.Frame, framelab.BitStuffing, framelab.DefaultOptions())
//
// The subpackages under pkg/ hold the full API; this package re-exports the
// common entry points.
package framelab

import (
	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
)

// BitString is a sequence of '0' and '1' characters, optionally with
// spaces between byte-groups.
type BitString = domain.BitString

// Strategy selects a framing method.
type Strategy = framing.Strategy

// Options tune the framers.
type Options = framing.Options

// Result describes one framing operation.
type Result = framing.Result

// ParityMode is even or odd parity.
type ParityMode = parity.Mode

// Framing strategies.
const (
	CountPrefix  = framing.CountPrefix
	ByteStuffing = framing.ByteStuffing
	BitStuffing  = framing.BitStuffing
)

// Parity modes.
const (
	Even = parity.Even
	Odd  = parity.Odd
)

// Errors reported by the encoder, framers and parity checker.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrEmptyInput          = domain.ErrEmptyInput
	ErrCodePointRange      = domain.ErrCodePointRange
	ErrMalformedBitString  = domain.ErrMalformedBitString
	ErrThresholdOutOfRange = domain.ErrThresholdOutOfRange
	ErrTruncatedFrame      = domain.ErrTruncatedFrame
	ErrMissingFlag         = domain.ErrMissingFlag
	ErrBadEscape           = domain.ErrBadEscape
	ErrBadStuffing         = domain.ErrBadStuffing
	ErrTrailingBits        = domain.ErrTrailingBits
	ErrNothingPending      = domain.ErrNothingPending
)

// DefaultOptions returns threshold 5 and an 8-bit count field.
func DefaultOptions() Options {
	return framing.DefaultOptions()
}

// Encode converts text to 8 bits per character, MSB first.
func Encode(text string) (BitString, error) {
	return bits.Encode(text)
}

// Decode converts 8-bit groups back to text.
func Decode(b BitString) (string, error) {
	return bits.Decode(b)
}

// Frame wraps payload using strategy.
func Frame(payload BitString, strategy Strategy, opts Options) (Result, error) {
	return framing.Frame(payload, strategy, opts)
}

// Deframe recovers the payload of a frame built by Frame.
func Deframe(frame BitString, strategy Strategy, opts Options) (BitString, error) {
	return framing.Deframe(frame, strategy, opts)
}

// ApplyParity appends a parity bit to every byte-group of payload.
func ApplyParity(payload BitString, mode ParityMode) (parity.Result, error) {
	return parity.Apply(payload, mode)
}

// CheckParity verifies the parity bit of every group of received.
func CheckParity(received BitString, mode ParityMode) (parity.Check, error) {
	return parity.Verify(received, mode)
}

// InjectError flips one random data bit of b when enabled, using src.
func InjectError(b string, enabled bool, src channel.Source) channel.Injection {
	return channel.Inject(b, enabled, src)
}
