package transmit

import (
	"sync"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/log"
)

// ErrNothingPending is returned by Transfer before any Generate.
var ErrNothingPending = domain.ErrNothingPending

// Delivery is one frame as seen by the receiver.
type Delivery struct {
	Seq      int               `json:"seq" yaml:"seq"`
	Strategy framing.Strategy  `json:"strategy" yaml:"strategy"`
	Sent     string            `json:"sent" yaml:"sent"`
	Frame    domain.BitString  `json:"frame" yaml:"frame"`
	Channel  channel.Injection `json:"channel" yaml:"channel"`
	Payload  domain.BitString  `json:"payload" yaml:"payload"`
	Output   string            `json:"output" yaml:"output"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Intact reports whether the receiver output equals the sent text.
func (d Delivery) Intact() bool {
	return d.Error == "" && d.Output == d.Sent
}

type pendingFrame struct {
	text   string
	result framing.Result
}

// FramingSession frames text and delivers it to a receiver.
type FramingSession struct {
	mu         sync.Mutex
	strategy   framing.Strategy
	fopts      framing.Options
	opts       options
	pending    *pendingFrame
	deliveries []Delivery
}

// NewFramingSession creates a session using strategy and fopts.
func NewFramingSession(strategy framing.Strategy, fopts framing.Options, opts ...Option) *FramingSession {
	return &FramingSession{
		strategy: strategy,
		fopts:    fopts,
		opts:     buildOptions(opts),
	}
}

// Strategy returns the current framing strategy.
func (s *FramingSession) Strategy() framing.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// SetStrategy changes the framing strategy for the next Generate.
func (s *FramingSession) SetStrategy(strategy framing.Strategy) {
	s.mu.Lock()
	s.strategy = strategy
	s.mu.Unlock()
}

// SetThreshold changes the bit stuffing threshold for the next Generate.
func (s *FramingSession) SetThreshold(n int) {
	s.mu.Lock()
	s.fopts.Threshold = n
	s.mu.Unlock()
}

// Generate encodes and frames text. The frame replaces any frame that was
// generated but not yet transferred.
func (s *FramingSession) Generate(text string) (framing.Result, error) {
	payload, err := bits.Encode(text)
	if err != nil {
		return framing.Result{}, err
	}

	s.mu.Lock()
	strategy, fopts := s.strategy, s.fopts
	s.mu.Unlock()

	res, err := framing.Frame(payload, strategy, fopts)
	if err != nil {
		return framing.Result{}, err
	}
	if res.Clamped {
		s.opts.logger.Warn("stuffing threshold clamped",
			log.Int("requested", fopts.Threshold),
			log.Int("threshold", res.Threshold))
	}
	if res.Wrapped {
		s.opts.logger.Warn("count field wrapped",
			log.Int("payload_bits", len(res.Payload)),
			log.Int("count_width", res.CountWidth))
	}

	s.mu.Lock()
	s.pending = &pendingFrame{text: text, result: res}
	s.mu.Unlock()

	s.opts.logger.Debug("frame generated",
		log.Stringer("strategy", strategy),
		log.Int("payload_bits", len(res.Payload)),
		log.Int("frame_bits", len(res.Frame)),
		log.Int("inserted", res.Inserted))
	s.opts.handler.OnFramed(FramedEvent{Text: text, Result: res})
	return res, nil
}

// Transfer sends the pending frame through the channel and lets the
// receiver recover the text. A frame damaged in the channel is still
// delivered; the receiver's failure is recorded in Delivery.Error.
func (s *FramingSession) Transfer() (Delivery, error) {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return Delivery{}, ErrNothingPending
	}

	inj := s.opts.channel.Transmit(string(p.result.Frame))
	d := Delivery{
		Strategy: p.result.Strategy,
		Sent:     p.text,
		Frame:    p.result.Frame,
		Channel:  inj,
	}

	fopts := framing.Options{
		Threshold:  p.result.Threshold,
		CountWidth: p.result.CountWidth,
	}
	payload, err := framing.Deframe(domain.BitString(inj.Bits), p.result.Strategy, fopts)
	if err == nil {
		d.Payload = payload
		d.Output, err = bits.Decode(payload)
	}
	if err != nil {
		d.Error = err.Error()
		s.opts.logger.Warn("receiver rejected frame", log.Err(err))
	}

	s.mu.Lock()
	d.Seq = len(s.deliveries) + 1
	s.deliveries = append(s.deliveries, d)
	s.mu.Unlock()

	s.opts.logger.Info("frame delivered",
		log.Int("seq", d.Seq),
		log.Bool("intact", d.Intact()),
		log.Int("flipped_at", inj.Position))
	s.opts.handler.OnDelivered(DeliveredEvent{Delivery: d})
	return d, nil
}

// Pending reports whether a generated frame awaits Transfer.
func (s *FramingSession) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Deliveries returns the receiver buffer in arrival order.
func (s *FramingSession) Deliveries() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}

// Reset drops the pending frame and the receiver buffer.
func (s *FramingSession) Reset() {
	s.mu.Lock()
	s.pending = nil
	s.deliveries = nil
	s.mu.Unlock()
}
