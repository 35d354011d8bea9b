package transmit

import "github.com/bft-labs/framelab/pkg/framing"

// EventHandler receives notifications as sessions progress.
// Handlers are called synchronously from the session method.
// Embed BaseEventHandler to implement only the callbacks you need.
type EventHandler interface {
	// OnFramed is called after Generate produced a frame.
	OnFramed(event FramedEvent)

	// OnDelivered is called after Transfer handed a frame to the receiver.
	OnDelivered(event DeliveredEvent)

	// OnParitySent is called after a parity transmission completed.
	OnParitySent(event ParityEvent)
}

// FramedEvent contains information about a generated frame.
type FramedEvent struct {
	Text   string
	Result framing.Result
}

// DeliveredEvent contains information about a delivered frame.
type DeliveredEvent struct {
	Delivery Delivery
}

// ParityEvent contains information about a parity transmission.
type ParityEvent struct {
	Transmission ParityTransmission
}

// BaseEventHandler provides no-op implementations of all EventHandler methods.
type BaseEventHandler struct{}

func (BaseEventHandler) OnFramed(FramedEvent)       {}
func (BaseEventHandler) OnDelivered(DeliveredEvent) {}
func (BaseEventHandler) OnParitySent(ParityEvent)   {}
