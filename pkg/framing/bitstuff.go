package framing

import (
	"fmt"
	"strings"
)

// BitStuff inserts a 0 after every run of threshold consecutive ones.
// Thresholds below 1 are clamped. It returns the stuffed bits and the
// number of inserted zeros.
func BitStuff(payload BitString, threshold int) (BitString, int) {
	threshold, _ = ClampThreshold(threshold)

	var sb strings.Builder
	sb.Grow(len(payload) + len(payload)/threshold)

	ones, inserted := 0, 0
	for i := 0; i < len(payload); i++ {
		b := payload[i]
		sb.WriteByte(b)
		if b != '1' {
			ones = 0
			continue
		}
		ones++
		if ones == threshold {
			sb.WriteByte('0')
			inserted++
			ones = 0
		}
	}
	return BitString(sb.String()), inserted
}

// BitUnstuff drops the zero that follows every run of threshold ones.
func BitUnstuff(stuffed BitString, threshold int) (BitString, error) {
	threshold, _ = ClampThreshold(threshold)

	var sb strings.Builder
	sb.Grow(len(stuffed))

	ones := 0
	for i := 0; i < len(stuffed); i++ {
		b := stuffed[i]
		if ones == threshold {
			if b != '0' {
				return "", fmt.Errorf("%w: expected stuffed 0 at bit %d after %d ones", ErrBadStuffing, i, threshold)
			}
			ones = 0
			continue
		}
		sb.WriteByte(b)
		if b == '1' {
			ones++
		} else {
			ones = 0
		}
	}
	if ones == threshold {
		return "", fmt.Errorf("%w: missing stuffed 0 at end of frame", ErrBadStuffing)
	}
	return BitString(sb.String()), nil
}

// DeframeBit checks the enclosing flags of a bit-stuffed frame and returns
// the unstuffed payload.
func DeframeBit(frame BitString, threshold int) (BitString, error) {
	inner, err := stripFlags(frame)
	if err != nil {
		return "", err
	}
	return BitUnstuff(inner, threshold)
}
