package domain

import (
	"fmt"
	"strings"
)

// ByteSize is the number of bits in a byte-group.
const ByteSize = 8

// Separator is the character used to keep byte-groups apart for display.
const Separator = ' '

// BitString is an ordered sequence of binary digits stored as '0'/'1'
// characters. Its length is meaningful and preserved exactly.
type BitString string

// Validate reports ErrMalformedBitString for the first character that is
// not '0' or '1'.
func (b BitString) Validate() error {
	for i := 0; i < len(b); i++ {
		if c := b[i]; c != '0' && c != '1' {
			return fmt.Errorf("%w: %q at index %d", ErrMalformedBitString, c, i)
		}
	}
	return nil
}

// ValidateGrouped is Validate but also accepts Separator between groups.
func (b BitString) ValidateGrouped() error {
	for i := 0; i < len(b); i++ {
		if c := b[i]; c != '0' && c != '1' && c != Separator {
			return fmt.Errorf("%w: %q at index %d", ErrMalformedBitString, c, i)
		}
	}
	return nil
}

// Ones returns the number of '1' characters.
func (b BitString) Ones() int {
	return strings.Count(string(b), "1")
}

// Len returns the number of characters, separators included.
func (b BitString) Len() int {
	return len(b)
}

// Groups splits b at a fixed stride. The last group is shorter when
// len(b) is not a multiple of size. An empty BitString has no groups.
func (b BitString) Groups(size int) []BitString {
	if size <= 0 || len(b) == 0 {
		return nil
	}
	out := make([]BitString, 0, (len(b)+size-1)/size)
	for i := 0; i < len(b); i += size {
		end := i + size
		if end > len(b) {
			end = len(b)
		}
		out = append(out, b[i:end])
	}
	return out
}

// Fields splits b on Separator, dropping empty fields.
func (b BitString) Fields() []BitString {
	raw := strings.Fields(string(b))
	out := make([]BitString, len(raw))
	for i, f := range raw {
		out[i] = BitString(f)
	}
	return out
}

// Compact returns b with every Separator removed.
func (b BitString) Compact() BitString {
	if strings.IndexByte(string(b), Separator) < 0 {
		return b
	}
	return BitString(strings.ReplaceAll(string(b), string(Separator), ""))
}

// Join concatenates groups with sep between them.
func Join(groups []BitString, sep string) BitString {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(string(g))
	}
	return BitString(sb.String())
}

// Flip returns the complement of a single bit character.
func Flip(c byte) byte {
	if c == '0' {
		return '1'
	}
	return '0'
}
