// Package framing wraps bit-string payloads in data-link frames and
// recovers them on the receiving side.
//
// Three interchangeable strategies are provided:
//
//   - [CountPrefix]: a fixed-width length field followed by the payload.
//     With the default 8-bit field, lengths of 256 bits or more wrap
//     modulo 256; raise Options.CountWidth to widen the field.
//   - [ByteStuffing]: payload bytes equal to ESC or FLAG are escaped with
//     ESC, and the result is enclosed in FLAG bytes.
//   - [BitStuffing]: a 0 is inserted after every run of Threshold ones,
//     and the result is enclosed in FLAG bytes.
//
// # Usage
//
//	res, err := framing.Frame(payload, framing.BitStuffing, framing.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	got, err := framing.Deframe(res.Frame, framing.BitStuffing, framing.DefaultOptions())
//
// Every receiver returns exactly the original payload for a frame built by
// the matching sender.
package framing
