package bits

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want BitString
	}{
		{name: "single letter", text: "A", want: "01000001"},
		{name: "two letters", text: "Hi", want: "0100100001101001"},
		{name: "nul byte keeps leading zeros", text: "\x00", want: "00000000"},
		{name: "latin-1 upper half", text: "é", want: "11101001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.text)
			if err != nil {
				t.Fatalf("Encode(%q) unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(""); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Encode(""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty input to be ErrInvalidInput, got %v", err)
	}

	_, err := Encode("ok€")
	if !errors.Is(err, ErrCodePointRange) {
		t.Fatalf("expected ErrCodePointRange, got %v", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected code point error to be ErrInvalidInput, got %v", err)
	}
}

func TestEncodeGrouped(t *testing.T) {
	got, err := EncodeGrouped("AB", " ")
	if err != nil {
		t.Fatalf("EncodeGrouped: %v", err)
	}
	if want := BitString("01000001 01000010"); got != want {
		t.Fatalf("EncodeGrouped = %q, want %q", got, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, text := range []string{"A", "hello, world", "ÿ\x01\x7f", "Frame me!"} {
		b, err := Encode(text)
		if err != nil {
			t.Fatalf("Encode(%q): %v", text, err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%q): %v", b, err)
		}
		if got != text {
			t.Errorf("round trip %q -> %q", text, got)
		}

		grouped, _ := EncodeGrouped(text, " ")
		got, err = Decode(grouped)
		if err != nil || got != text {
			t.Errorf("grouped round trip %q -> %q (%v)", text, got, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, b := range []BitString{"0100000", "0100000x", "01000001 2"} {
		if _, err := Decode(b); !errors.Is(err, ErrMalformedBitString) {
			t.Errorf("Decode(%q) expected ErrMalformedBitString, got %v", b, err)
		}
	}
}

func TestFormatParseUint(t *testing.T) {
	if got := FormatUint(5, 8); got != "00000101" {
		t.Errorf("FormatUint(5, 8) = %q", got)
	}
	if got := FormatUint(256+3, 8); got != "00000011" {
		t.Errorf("FormatUint(259, 8) = %q, want wrapped 00000011", got)
	}
	v, err := ParseUint("11111111")
	if err != nil || v != 255 {
		t.Errorf("ParseUint = %d, %v", v, err)
	}
	if _, err := ParseUint("12"); !errors.Is(err, ErrMalformedBitString) {
		t.Errorf("expected ErrMalformedBitString, got %v", err)
	}
}
