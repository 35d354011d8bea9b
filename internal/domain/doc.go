// Package domain contains the core value types and errors for framelab.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (CLI, HTTP, file system, logging) and holds only
// the bit-string model shared by the encoder, framer, parity coder and
// channel packages.
//
// # Entities
//
//   - [BitString]: an ordered sequence of '0'/'1' characters whose length is
//     meaningful (leading zeros are never trimmed)
//
// Frames, parity results and injections are plain BitStrings plus
// metadata and live in their own packages under pkg/.
package domain
