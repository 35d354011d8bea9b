package framing

import (
	"errors"
	"fmt"

	"github.com/bft-labs/framelab/internal/domain"
)

// BitString is re-exported from the domain package.
type BitString = domain.BitString

const (
	// Flag delimits byte- and bit-stuffed frames.
	Flag BitString = "01111110"
	// Esc escapes Flag and Esc bytes inside a byte-stuffed payload.
	Esc BitString = "11100011"

	DefaultThreshold  = 5
	MinThreshold      = 1
	DefaultCountWidth = 8
	MaxCountWidth     = 32
)

// Errors returned by this package.
var (
	ErrMalformedBitString  = domain.ErrMalformedBitString
	ErrThresholdOutOfRange = domain.ErrThresholdOutOfRange
	ErrTruncatedFrame      = domain.ErrTruncatedFrame
	ErrMissingFlag         = domain.ErrMissingFlag
	ErrBadEscape           = domain.ErrBadEscape
	ErrBadStuffing         = domain.ErrBadStuffing
	ErrTrailingBits        = domain.ErrTrailingBits

	ErrCountWidth = errors.New("framing: count width out of range")
)

// Options tunes the framing strategies.
type Options struct {
	// Threshold is the run of ones after which BitStuffing inserts a 0.
	// Values below 1 are clamped to 1.
	Threshold int

	// CountWidth is the size in bits of the CountPrefix length field.
	// Zero means DefaultCountWidth.
	CountWidth int
}

// DefaultOptions returns threshold 5 and an 8-bit count field.
func DefaultOptions() Options {
	return Options{
		Threshold:  DefaultThreshold,
		CountWidth: DefaultCountWidth,
	}
}

// ClampThreshold raises n to MinThreshold. The error is
// ErrThresholdOutOfRange when clamping happened and nil otherwise; the
// returned threshold is always usable.
func ClampThreshold(n int) (int, error) {
	if n < MinThreshold {
		return MinThreshold, fmt.Errorf("%w: %d clamped to %d", ErrThresholdOutOfRange, n, MinThreshold)
	}
	return n, nil
}

func countWidth(w int) (int, error) {
	if w == 0 {
		return DefaultCountWidth, nil
	}
	if w < 1 || w > MaxCountWidth {
		return 0, fmt.Errorf("%w: %d (want 1..%d)", ErrCountWidth, w, MaxCountWidth)
	}
	return w, nil
}

// Result describes one framing operation.
type Result struct {
	Strategy Strategy  `json:"strategy" yaml:"strategy"`
	Payload  BitString `json:"payload" yaml:"payload"`
	Frame    BitString `json:"frame" yaml:"frame"`

	// Threshold is the effective bit stuffing threshold and Clamped reports
	// whether the requested one was raised to MinThreshold.
	Threshold int  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Clamped   bool `json:"clamped,omitempty" yaml:"clamped,omitempty"`

	// CountWidth is the length field size and Wrapped reports whether the
	// payload length did not fit in it.
	CountWidth int  `json:"count_width,omitempty" yaml:"count_width,omitempty"`
	Wrapped    bool `json:"wrapped,omitempty" yaml:"wrapped,omitempty"`

	// Inserted counts stuffed bits (BitStuffing) or escape bytes (ByteStuffing).
	Inserted int `json:"inserted" yaml:"inserted"`
}

// Overhead returns the number of bits the frame adds to the payload.
func (r Result) Overhead() int {
	return len(r.Frame) - len(r.Payload)
}

// Frame wraps payload using strategy.
func Frame(payload BitString, strategy Strategy, opts Options) (Result, error) {
	if err := payload.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Strategy: strategy, Payload: payload}
	switch strategy {
	case CountPrefix:
		w, err := countWidth(opts.CountWidth)
		if err != nil {
			return Result{}, err
		}
		res.CountWidth = w
		res.Frame, res.Wrapped = CountFrame(payload, w)
	case ByteStuffing:
		stuffed, n := ByteStuff(payload)
		res.Frame = Flag + stuffed + Flag
		res.Inserted = n
	case BitStuffing:
		th, err := ClampThreshold(opts.Threshold)
		res.Threshold = th
		res.Clamped = err != nil
		stuffed, n := BitStuff(payload, th)
		res.Frame = Flag + stuffed + Flag
		res.Inserted = n
	default:
		return Result{}, fmt.Errorf("framing: unknown strategy %d", int(strategy))
	}
	return res, nil
}

// Deframe recovers the payload of a single frame built with strategy.
// For CountPrefix any bits after the declared payload are reported as
// ErrTrailingBits; use DeframeCount to read a stream of frames.
func Deframe(frame BitString, strategy Strategy, opts Options) (BitString, error) {
	if err := frame.Validate(); err != nil {
		return "", err
	}

	switch strategy {
	case CountPrefix:
		w, err := countWidth(opts.CountWidth)
		if err != nil {
			return "", err
		}
		payload, rest, err := DeframeCount(frame, w)
		if err != nil {
			return "", err
		}
		if len(rest) > 0 {
			return payload, fmt.Errorf("%w: %d bits after declared length %d", ErrTrailingBits, len(rest), len(payload))
		}
		return payload, nil
	case ByteStuffing:
		return DeframeByte(frame)
	case BitStuffing:
		th, _ := ClampThreshold(opts.Threshold)
		return DeframeBit(frame, th)
	default:
		return "", fmt.Errorf("framing: unknown strategy %d", int(strategy))
	}
}

// stripFlags checks that frame starts and ends with Flag and returns what
// lies between them.
func stripFlags(frame BitString) (BitString, error) {
	n := len(Flag)
	if len(frame) < 2*n {
		return "", fmt.Errorf("%w: frame of %d bits is shorter than two flags", ErrMissingFlag, len(frame))
	}
	if frame[:n] != Flag {
		return "", fmt.Errorf("%w: opening flag is %s", ErrMissingFlag, frame[:n])
	}
	if frame[len(frame)-n:] != Flag {
		return "", fmt.Errorf("%w: closing flag is %s", ErrMissingFlag, frame[len(frame)-n:])
	}
	return frame[n : len(frame)-n], nil
}
