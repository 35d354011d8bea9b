package framing

import (
	"fmt"

	"github.com/bft-labs/framelab/pkg/bits"
)

// CountFrame prepends a width-bit field holding len(payload). wrapped is
// true when the length does not fit and the field holds it modulo 2^width.
func CountFrame(payload BitString, width int) (frame BitString, wrapped bool) {
	n := uint64(len(payload))
	wrapped = width < 64 && n>>uint(width) != 0
	return bits.FormatUint(n, width) + payload, wrapped
}

// DeframeCount reads one count-prefixed frame from the front of data and
// returns its payload and whatever follows it.
func DeframeCount(data BitString, width int) (payload, rest BitString, err error) {
	if err := data.Validate(); err != nil {
		return "", data, err
	}
	if len(data) < width {
		return "", data, fmt.Errorf("%w: %d bits, count field needs %d", ErrTruncatedFrame, len(data), width)
	}
	n, err := bits.ParseUint(data[:width])
	if err != nil {
		return "", data, err
	}
	body := data[width:]
	if uint64(len(body)) < n {
		return "", data, fmt.Errorf("%w: count field says %d bits, %d available", ErrTruncatedFrame, n, len(body))
	}
	return body[:n], body[n:], nil
}
