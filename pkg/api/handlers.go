package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/exchange"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/parity"
)

const maxBody = 1 << 20

type encodeRequest struct {
	Text    string `json:"text"`
	Grouped bool   `json:"grouped"`
}

type decodeRequest struct {
	Bits string `json:"bits"`
}

type frameRequest struct {
	Text       string `json:"text"`
	Payload    string `json:"payload"`
	Strategy   string `json:"strategy"`
	Threshold  int    `json:"threshold"`
	CountWidth int    `json:"count_width"`
}

type deframeRequest struct {
	Frame      string `json:"frame"`
	Strategy   string `json:"strategy"`
	Threshold  int    `json:"threshold"`
	CountWidth int    `json:"count_width"`
}

type deframeResponse struct {
	Payload domain.BitString `json:"payload"`
	Text    string           `json:"text,omitempty"`
}

type parityRequest struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
	Mode    string `json:"mode"`
}

type parityResponse struct {
	Mode       parity.Mode        `json:"mode"`
	Groups     []domain.BitString `json:"groups"`
	Encoded    domain.BitString   `json:"encoded"`
	ParityBits string             `json:"parity_bits"`
}

type checkRequest struct {
	Received string `json:"received"`
	Mode     string `json:"mode"`
}

type checkResponse struct {
	parity.Check
	OK bool `json:"ok"`
}

type injectRequest struct {
	Bits    string  `json:"bits"`
	Enabled *bool   `json:"enabled"`
	Seed    *uint64 `json:"seed"`
}

type exchangeResponse struct {
	Protocol exchange.Protocol `json:"protocol"`
	Steps    []exchange.Step   `json:"steps"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req encodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	var (
		out domain.BitString
		err error
	)
	if req.Grouped {
		out, err = bits.EncodeGrouped(req.Text, string(domain.Separator))
	} else {
		out, err = bits.Encode(req.Text)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.BitString{"bits": out})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req decodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	text, err := bits.Decode(domain.BitString(req.Bits))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req frameRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategy, opts, err := s.framingParams(req.Strategy, req.Threshold, req.CountWidth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payload, err := payloadOf(req.Text, req.Payload, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := framing.Frame(payload, strategy, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeframe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req deframeRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategy, opts, err := s.framingParams(req.Strategy, req.Threshold, req.CountWidth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payload, err := framing.Deframe(domain.BitString(req.Frame), strategy, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := deframeResponse{Payload: payload}
	if len(payload) > 0 && len(payload)%domain.ByteSize == 0 {
		if text, err := bits.Decode(payload); err == nil {
			resp.Text = text
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req parityRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode, err := s.parityMode(req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payload, err := payloadOf(req.Text, req.Payload, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := parity.Apply(payload, mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parityResponse{
		Mode:       res.Mode,
		Groups:     res.Groups,
		Encoded:    res.Encoded,
		ParityBits: res.ParityString(),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}
	mode, err := s.parityMode(req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := parity.Verify(domain.BitString(req.Received), mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Check: c, OK: c.OK()})
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req injectRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := domain.BitString(req.Bits).ValidateGrouped(); err != nil {
		s.fail(w, r, err)
		return
	}

	enabled := req.Enabled == nil || *req.Enabled
	var inj channel.Injection
	switch {
	case !enabled:
		inj = channel.Inject(req.Bits, false, nil)
	case req.Seed != nil:
		inj = channel.Inject(req.Bits, true, channel.NewSource(*req.Seed))
	default:
		inj = s.channel.Transmit(req.Bits)
	}
	writeJSON(w, http.StatusOK, inj)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	p, err := exchange.ParseProtocol(params.ByName("protocol"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeResponse{Protocol: p, Steps: exchange.Script(p)})
}

func (s *Server) framingParams(rawStrategy string, threshold, width int) (framing.Strategy, framing.Options, error) {
	strategy := s.defaults.Strategy
	if rawStrategy != "" {
		var err error
		if strategy, err = framing.ParseStrategy(rawStrategy); err != nil {
			return 0, framing.Options{}, err
		}
	}
	opts := s.defaults.Framing
	if threshold != 0 {
		opts.Threshold = threshold
	}
	if width != 0 {
		opts.CountWidth = width
	}
	return strategy, opts, nil
}

func (s *Server) parityMode(raw string) (parity.Mode, error) {
	if raw == "" {
		return s.defaults.Parity, nil
	}
	return parity.ParseMode(raw)
}

// payloadOf encodes text when given, otherwise validates the raw payload.
func payloadOf(text, payload string, grouped bool) (domain.BitString, error) {
	if text != "" {
		if grouped {
			return bits.EncodeGrouped(text, string(domain.Separator))
		}
		return bits.Encode(text)
	}
	p := domain.BitString(payload)
	if grouped {
		return p, p.ValidateGrouped()
	}
	return p, p.Validate()
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.fail(w, r, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("request failed", log.String("path", r.URL.Path), log.Err(err))
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
