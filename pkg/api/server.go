// Package api exposes the framing, parity and channel operations as a small
// JSON HTTP API.
//
// Routes:
//
//	POST /v1/encode           {"text": "A", "grouped": false}
//	POST /v1/decode           {"bits": "01000001"}
//	POST /v1/frame            {"text": "A", "strategy": "bit", "threshold": 5}
//	POST /v1/deframe          {"frame": "...", "strategy": "bit", "threshold": 5}
//	POST /v1/parity           {"text": "AB", "mode": "even"}
//	POST /v1/check            {"received": "010000010", "mode": "even"}
//	POST /v1/inject           {"bits": "0101", "seed": 7}
//	GET  /v1/exchange/:protocol
//	GET  /healthz
//
// Every failed request is answered with 400 and {"error": "..."}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/bft-labs/framelab/pkg/channel"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/parity"
)

// Defaults are used for request fields left empty.
type Defaults struct {
	Strategy framing.Strategy
	Framing  framing.Options
	Parity   parity.Mode
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults sets the values used for omitted request fields.
func WithDefaults(d Defaults) Option {
	return func(s *Server) {
		s.defaults = d
	}
}

// WithSource sets the randomness used by /v1/inject requests without a seed.
func WithSource(src channel.Source) Option {
	return func(s *Server) {
		if src != nil {
			s.channel = channel.New(true, src)
		}
	}
}

// Server serves the JSON API.
type Server struct {
	router   *httprouter.Router
	logger   log.Logger
	defaults Defaults
	channel  *channel.Channel
}

// NewServer creates a server with its routes registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: log.NewNoopLogger(),
		defaults: Defaults{
			Strategy: framing.BitStuffing,
			Framing:  framing.DefaultOptions(),
			Parity:   parity.Even,
		},
		channel: channel.New(true, channel.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := httprouter.New()
	r.POST("/v1/encode", s.handleEncode)
	r.POST("/v1/decode", s.handleDecode)
	r.POST("/v1/frame", s.handleFrame)
	r.POST("/v1/deframe", s.handleDeframe)
	r.POST("/v1/parity", s.handleParity)
	r.POST("/v1/check", s.handleCheck)
	r.POST("/v1/inject", s.handleInject)
	r.GET("/v1/exchange/:protocol", s.handleExchange)
	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.router.ServeHTTP(w, r)
	s.logger.Debug("request",
		log.String("method", r.Method),
		log.String("path", r.URL.Path),
		log.Duration("took", time.Since(start)),
	)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
