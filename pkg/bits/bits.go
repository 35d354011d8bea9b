package bits

import (
	"fmt"
	"strings"

	"github.com/bft-labs/framelab/internal/domain"
)

// BitString is re-exported from the domain package.
type BitString = domain.BitString

// Errors returned by this package.
var (
	ErrInvalidInput       = domain.ErrInvalidInput
	ErrEmptyInput         = domain.ErrEmptyInput
	ErrCodePointRange     = domain.ErrCodePointRange
	ErrMalformedBitString = domain.ErrMalformedBitString
)

// MaxCodePoint is the largest code point that fits in one byte-group.
const MaxCodePoint = 0xFF

// Encode returns the concatenated 8-bit codes of every character of text.
func Encode(text string) (BitString, error) {
	return encode(text, "")
}

// EncodeGrouped is Encode with sep written between byte-groups.
func EncodeGrouped(text, sep string) (BitString, error) {
	return encode(text, sep)
}

func encode(text, sep string) (BitString, error) {
	if text == "" {
		return "", ErrEmptyInput
	}
	n := len(text)
	var sb strings.Builder
	sb.Grow(n*domain.ByteSize + n*len(sep))

	i := 0
	for _, r := range text {
		if r > MaxCodePoint {
			return "", fmt.Errorf("%w: %q (U+%04X) at character %d", ErrCodePointRange, r, r, i)
		}
		if i > 0 {
			sb.WriteString(sep)
		}
		writeByte(&sb, byte(r))
		i++
	}
	return BitString(sb.String()), nil
}

func writeByte(sb *strings.Builder, v byte) {
	for shift := domain.ByteSize - 1; shift >= 0; shift-- {
		if v>>uint(shift)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
}

// Decode regroups b into 8-bit chunks and maps each back to a character.
// Separators are ignored, so the output of EncodeGrouped decodes as well.
func Decode(b BitString) (string, error) {
	if err := b.ValidateGrouped(); err != nil {
		return "", err
	}
	compact := b.Compact()
	if len(compact)%domain.ByteSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedBitString, len(compact), domain.ByteSize)
	}

	var sb strings.Builder
	sb.Grow(len(compact) / domain.ByteSize)
	for _, g := range compact.Groups(domain.ByteSize) {
		sb.WriteRune(rune(ParseByte(g)))
	}
	return sb.String(), nil
}

// ParseByte interprets up to 8 bits MSB first. The caller must have
// validated g.
func ParseByte(g BitString) byte {
	var v byte
	for i := 0; i < len(g); i++ {
		v = v<<1 | (g[i] - '0')
	}
	return v
}

// FormatUint writes v as a width-bit field, MSB first. Bits above width
// are dropped, so the field wraps modulo 2^width.
func FormatUint(v uint64, width int) BitString {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = '0' + byte(v&1)
		v >>= 1
	}
	return BitString(buf)
}

// ParseUint reads a BitString as an unsigned integer, MSB first.
func ParseUint(b BitString) (uint64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if len(b) > 64 {
		return 0, fmt.Errorf("%w: field of %d bits exceeds 64", ErrMalformedBitString, len(b))
	}
	var v uint64
	for i := 0; i < len(b); i++ {
		v = v<<1 | uint64(b[i]-'0')
	}
	return v, nil
}
