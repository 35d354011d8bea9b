package channel

import (
	"testing"
)

// fixedSource always returns the same index, clamped to n.
type fixedSource int

func (f fixedSource) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestInjectDisabled(t *testing.T) {
	res := Inject("0101", false, NewSource(1))
	if res.Bits != "0101" || res.Flipped || res.Position != -1 {
		t.Fatalf("disabled channel changed bits: %+v", res)
	}
}

func TestInjectNoDataBits(t *testing.T) {
	for _, in := range []string{"", "   ", " | "} {
		res := Inject(in, true, NewSource(7))
		if res.Bits != in || res.Flipped {
			t.Errorf("Inject(%q) = %+v, want unchanged", in, res)
		}
	}
}

func TestInjectSkipsSeparators(t *testing.T) {
	// Index 1 among eligible positions of "01 10" is string index 1;
	// index 2 is string index 3 (the space at 2 is skipped).
	res := Inject("01 10", true, fixedSource(2))
	if res.Position != 3 || res.Bits != "01 00" {
		t.Fatalf("Inject = %+v, want position 3 bits \"01 00\"", res)
	}
}

func TestInjectFlipsExactlyOneBit(t *testing.T) {
	src := NewSource(99)
	in := "010000010 010000100 010000111"
	for i := 0; i < 200; i++ {
		res := Inject(in, true, src)
		if !res.Flipped {
			t.Fatalf("expected a flip")
		}
		diff := 0
		for j := range in {
			if in[j] != res.Bits[j] {
				diff++
				if j != res.Position {
					t.Fatalf("changed index %d, reported %d", j, res.Position)
				}
			}
		}
		if diff != 1 {
			t.Fatalf("changed %d bits, want 1", diff)
		}
		if in[res.Position] == ' ' {
			t.Fatalf("flipped a separator at %d", res.Position)
		}
	}
}

func TestInjectDeterministic(t *testing.T) {
	a := Inject("0000000011111111", true, NewSource(5))
	b := Inject("0000000011111111", true, NewSource(5))
	if a != b {
		t.Fatalf("same seed gave %+v and %+v", a, b)
	}
}

func TestChannelTransmit(t *testing.T) {
	ch := New(false, fixedSource(0))
	if got := ch.Transmit("11"); got.Flipped {
		t.Fatalf("disabled channel flipped a bit")
	}
	ch.SetEnabled(true)
	if !ch.Enabled() {
		t.Fatalf("SetEnabled(true) not applied")
	}
	if got := ch.Transmit("11"); got.Bits != "01" {
		t.Fatalf("Transmit = %q, want 01", got.Bits)
	}
}

func TestInjectNilSource(t *testing.T) {
	res := Inject("0101", true, nil)
	if res.Flipped || res.Bits != "0101" || res.Position != -1 {
		t.Fatalf("Inject with nil source = %+v", res)
	}
}

func TestNewNilSourceUsesClock(t *testing.T) {
	res := New(true, nil).Transmit("01000001")
	if !res.Flipped {
		t.Fatalf("expected a flipped bit, got %+v", res)
	}
	diff := 0
	for i := range res.Bits {
		if res.Bits[i] != "01000001"[i] {
			diff++
		}
	}
	if diff != 1 {
		t.Fatalf("expected exactly one flipped bit, got %d in %q", diff, res.Bits)
	}
}
