// Package transmit runs the sender -> channel -> receiver demonstrations.
//
// A FramingSession encodes text, frames it, and on Transfer passes the
// frame through a channel before the receiver deframes and decodes it.
// Delivered frames are kept in arrival order until Reset, the way a
// receiver buffer stacks them.
//
// A ParitySession encodes text one byte-group at a time, appends parity
// bits, passes the result through a channel and verifies parity on the
// receiving side.
//
// Sessions are synchronous. Any pacing of the individual steps belongs to
// the caller; an EventHandler is notified after each step.
package transmit
