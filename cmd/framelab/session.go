package main

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	flog "github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/transmit"
	"github.com/bft-labs/framelab/pkg/watch"
)

// eventLogger reports session progress at debug level.
type eventLogger struct {
	transmit.BaseEventHandler
	log zerolog.Logger
}

func (h eventLogger) OnFramed(e transmit.FramedEvent) {
	h.log.Debug().
		Str("strategy", e.Result.Strategy.String()).
		Int("payload_bits", len(e.Result.Payload)).
		Int("frame_bits", len(e.Result.Frame)).
		Msg("frame generated")
}

func (h eventLogger) OnDelivered(e transmit.DeliveredEvent) {
	d := e.Delivery
	ev := h.log.Debug()
	if !d.Intact() {
		ev = h.log.Warn()
	}
	ev.Int("seq", d.Seq).
		Bool("flipped", d.Channel.Flipped).
		Bool("intact", d.Intact()).
		Msg("frame delivered")
}

func (h eventLogger) OnParitySent(e transmit.ParityEvent) {
	h.log.Debug().
		Str("mode", e.Transmission.Mode.String()).
		Bool("detected", e.Transmission.Detected()).
		Msg("parity transmission")
}

func (a *app) sessionOptions() []transmit.Option {
	return []transmit.Option{
		transmit.WithLogger(a.logger),
		transmit.WithEventHandler(eventLogger{log: a.log}),
		transmit.WithChannel(a.channel()),
	}
}

func (a *app) transmitCmd() *cobra.Command {
	var useParity bool
	cmd := &cobra.Command{
		Use:   "transmit [text...]",
		Short: "Send text through the channel and show what the receiver got",
		Long: "Send text through the channel. By default the text is framed with the " +
			"configured strategy and deframed on arrival; with --parity-check each " +
			"byte carries a parity bit that the receiver verifies.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			if useParity {
				s := transmit.NewParitySession(a.cfg.ParityMode(), a.sessionOptions()...)
				t, err := s.Send(text)
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), t)
			}

			s := transmit.NewFramingSession(a.cfg.FramingStrategy(), a.cfg.FramingOptions(), a.sessionOptions()...)
			if _, err := s.Generate(text); err != nil {
				return err
			}
			d, err := s.Transfer()
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().BoolVar(&useParity, "parity-check", false, "send with per-byte parity instead of framing")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-send the contents of a file through a framing session whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			session := transmit.NewFramingSession(a.cfg.FramingStrategy(), a.cfg.FramingOptions(), a.sessionOptions()...)
			out := cmd.OutOrStdout()

			handler := func(ctx context.Context, path string) {
				b, err := os.ReadFile(path)
				if err != nil {
					a.logger.Error("read input", flog.String("path", path), flog.Err(err))
					return
				}
				text := strings.TrimRight(string(b), "\r\n")
				if _, err := session.Generate(text); err != nil {
					a.logger.Warn("cannot frame input", flog.String("path", path), flog.Err(err))
					return
				}
				d, err := session.Transfer()
				if err != nil {
					a.logger.Error("transfer", flog.Err(err))
					return
				}
				if err := a.write(out, d); err != nil {
					a.logger.Error("write", flog.Err(err))
				}
			}

			w := watch.New(args[0], handler, watch.Config{DebounceDelay: a.cfg.Debounce}, a.logger)
			if err := w.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			a.log.Info().Int("deliveries", len(session.Deliveries())).Msg("received signal, stopping...")
			return w.Shutdown(context.Background())
		},
	}
}
