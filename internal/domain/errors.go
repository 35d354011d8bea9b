package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the framelab core.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidInput is returned when text cannot be encoded.
	ErrInvalidInput = errors.New("framelab: invalid input")

	// ErrEmptyInput is returned when there is no text to encode.
	ErrEmptyInput = fmt.Errorf("%w: no input", ErrInvalidInput)

	// ErrCodePointRange is returned for characters above U+00FF.
	ErrCodePointRange = fmt.Errorf("%w: code point does not fit in 8 bits", ErrInvalidInput)

	// ErrMalformedBitString is returned when a BitString holds characters
	// other than '0' and '1', or has the wrong length for the operation.
	ErrMalformedBitString = errors.New("framelab: malformed bit string")

	// ErrThresholdOutOfRange marks a stuffing threshold below 1. Thresholds
	// are clamped, so this is informational only.
	ErrThresholdOutOfRange = errors.New("framelab: stuffing threshold out of range")

	// ErrTruncatedFrame is returned when a frame ends before its declared length.
	ErrTruncatedFrame = errors.New("framelab: truncated frame")

	// ErrMissingFlag is returned when a frame does not start or end with FLAG.
	ErrMissingFlag = errors.New("framelab: missing frame flag")

	// ErrBadEscape is returned when ESC is followed by neither ESC nor FLAG.
	ErrBadEscape = errors.New("framelab: invalid escape sequence")

	// ErrBadStuffing is returned when a run of ones is not followed by a stuffed zero.
	ErrBadStuffing = errors.New("framelab: invalid bit stuffing")

	// ErrTrailingBits is returned when bits follow the closing FLAG.
	ErrTrailingBits = errors.New("framelab: trailing bits after frame")

	// ErrNothingPending is returned by Transfer when no frame was generated.
	ErrNothingPending = errors.New("framelab: no frame generated yet")
)
