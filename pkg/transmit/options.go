package transmit

import (
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/log"
)

// Option configures optional behavior of a session.
type Option func(*options)

type options struct {
	logger  log.Logger
	handler EventHandler
	channel *channel.Channel
}

func defaultOptions() options {
	return options{
		logger:  log.NewNoopLogger(),
		handler: BaseEventHandler{},
		channel: channel.New(false, nil),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for session events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.handler = handler
		}
	}
}

// WithChannel sets the channel frames travel through.
// If not provided, an error-free channel is used.
func WithChannel(ch *channel.Channel) Option {
	return func(o *options) {
		if ch != nil {
			o.channel = ch
		}
	}
}
