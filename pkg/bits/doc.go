// Package bits converts text to fixed-width bit strings and back.
//
// Every character is written as its 8-bit code, most significant bit
// first and zero padded, so "A" becomes "01000001". Only code points up to
// U+00FF fit; anything larger is rejected with ErrCodePointRange rather
// than truncated.
//
// # Usage
//
//	b, err := bits.Encode("Hi")
//	if err != nil {
//	    return err
//	}
//	text, err := bits.Decode(b) // "Hi"
package bits
