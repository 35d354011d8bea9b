package transmit

import (
	"sync"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/parity"
)

// ParityTransmission records every stage of one parity demonstration.
type ParityTransmission struct {
	Text       string            `json:"text" yaml:"text"`
	Mode       parity.Mode       `json:"mode" yaml:"mode"`
	Original   domain.BitString  `json:"original" yaml:"original"`
	Sender     domain.BitString  `json:"sender" yaml:"sender"`
	ParityBits string            `json:"parity_bits" yaml:"parity_bits"`
	Channel    channel.Injection `json:"channel" yaml:"channel"`
	Check      parity.Check      `json:"check" yaml:"check"`
}

// Detected reports whether the receiver noticed a parity mismatch.
func (t ParityTransmission) Detected() bool {
	return !t.Check.OK()
}

// ParitySession sends text protected by one parity bit per byte.
type ParitySession struct {
	mu   sync.Mutex
	mode parity.Mode
	opts options
}

// NewParitySession creates a session using mode.
func NewParitySession(mode parity.Mode, opts ...Option) *ParitySession {
	return &ParitySession{
		mode: mode,
		opts: buildOptions(opts),
	}
}

// Mode returns the current parity mode.
func (s *ParitySession) Mode() parity.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode changes the parity mode for the next Send.
func (s *ParitySession) SetMode(mode parity.Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Send encodes text, applies parity, transmits it and checks it on arrival.
func (s *ParitySession) Send(text string) (ParityTransmission, error) {
	original, err := bits.EncodeGrouped(text, string(domain.Separator))
	if err != nil {
		return ParityTransmission{}, err
	}
	mode := s.Mode()

	res, err := parity.Apply(original, mode)
	if err != nil {
		return ParityTransmission{}, err
	}

	inj := s.opts.channel.Transmit(string(res.Encoded))
	check, err := parity.Verify(domain.BitString(inj.Bits), mode)
	if err != nil {
		return ParityTransmission{}, err
	}

	t := ParityTransmission{
		Text:       text,
		Mode:       mode,
		Original:   original,
		Sender:     res.Encoded,
		ParityBits: res.ParityString(),
		Channel:    inj,
		Check:      check,
	}

	s.opts.logger.Info("parity transmission",
		log.Stringer("mode", mode),
		log.Int("groups", len(res.Groups)),
		log.Int("flipped_at", inj.Position),
		log.Bool("detected", t.Detected()))
	s.opts.handler.OnParitySent(ParityEvent{Transmission: t})
	return t, nil
}
