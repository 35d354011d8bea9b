package framing

import (
	"fmt"
	"strings"

	"github.com/bft-labs/framelab/internal/domain"
)

// ByteStuff escapes every aligned byte-group of payload equal to Esc or
// Flag by writing Esc in front of it. Esc is checked before Flag so an
// inserted Esc is never escaped again. A trailing group shorter than 8
// bits is copied as is. It returns the stuffed bits and the number of
// escapes inserted.
//
// Only 8-bit aligned groups are examined, not every substring. A FLAG
// pattern spanning a group boundary is left alone; literal substring
// replacement cannot be undone once such a pattern meets the closing FLAG.
func ByteStuff(payload BitString) (BitString, int) {
	var sb strings.Builder
	sb.Grow(len(payload) + len(payload)/4)

	inserted := 0
	for _, g := range payload.Groups(domain.ByteSize) {
		switch g {
		case Esc:
			sb.WriteString(string(Esc))
			inserted++
		case Flag:
			sb.WriteString(string(Esc))
			inserted++
		}
		sb.WriteString(string(g))
	}
	return BitString(sb.String()), inserted
}

// ByteUnstuff reverses ByteStuff. Scanning aligned byte-groups left to
// right, Esc followed by Esc or Flag yields the second group; an
// unescaped Flag ends the frame, so anything after it is ErrTrailingBits.
func ByteUnstuff(stuffed BitString) (BitString, error) {
	const n = domain.ByteSize

	var sb strings.Builder
	sb.Grow(len(stuffed))

	i := 0
	for len(stuffed)-i >= n {
		g := stuffed[i : i+n]
		switch g {
		case Esc:
			if len(stuffed)-i < 2*n {
				return "", fmt.Errorf("%w: dangling escape at bit %d", ErrBadEscape, i)
			}
			next := stuffed[i+n : i+2*n]
			if next != Esc && next != Flag {
				return "", fmt.Errorf("%w: escape at bit %d followed by %s", ErrBadEscape, i, next)
			}
			sb.WriteString(string(next))
			i += 2 * n
		case Flag:
			return "", fmt.Errorf("%w: unescaped flag at bit %d", ErrTrailingBits, i)
		default:
			sb.WriteString(string(g))
			i += n
		}
	}
	sb.WriteString(string(stuffed[i:]))
	return BitString(sb.String()), nil
}

// DeframeByte checks the enclosing flags of a byte-stuffed frame and
// returns the unstuffed payload.
func DeframeByte(frame BitString) (BitString, error) {
	inner, err := stripFlags(frame)
	if err != nil {
		return "", err
	}
	return ByteUnstuff(inner)
}
