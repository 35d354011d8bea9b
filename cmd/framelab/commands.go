package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/framelab/internal/domain"
	"github.com/bft-labs/framelab/internal/report"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/exchange"
	"github.com/bft-labs/framelab/pkg/framing"
	"github.com/bft-labs/framelab/pkg/parity"
)

func (a *app) encodeCmd() *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text as 8 bits per character",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			var out domain.BitString
			if grouped {
				out, err = bits.EncodeGrouped(text, string(domain.Separator))
			} else {
				out, err = bits.Encode(text)
			}
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "separate byte-groups with spaces")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <bits>",
		Short: "Decode 8-bit groups back to text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			out, err := bits.Decode(domain.BitString(text))
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}
}

// payloadFrom encodes the input as text, or takes it verbatim as bits.
func payloadFrom(cmd *cobra.Command, args []string, raw, grouped bool) (domain.BitString, error) {
	text, err := inputText(cmd, args)
	if err != nil {
		return "", err
	}
	if raw {
		p := domain.BitString(text)
		if grouped {
			return p, p.ValidateGrouped()
		}
		return p, p.Validate()
	}
	if grouped {
		return bits.EncodeGrouped(text, string(domain.Separator))
	}
	return bits.Encode(text)
}

func (a *app) frameCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "frame [text...]",
		Short: "Frame text (or raw bits) with the configured strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := payloadFrom(cmd, args, raw, false)
			if err != nil {
				return err
			}
			res, err := framing.Frame(payload, a.cfg.FramingStrategy(), a.cfg.FramingOptions())
			if err != nil {
				return err
			}
			if res.Clamped {
				a.log.Warn().Int("threshold", res.Threshold).Msg("threshold clamped")
			}
			if res.Wrapped {
				a.log.Warn().Int("bits", len(res.Payload)).Int("width", res.CountWidth).Msg("payload length wrapped in count field")
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&raw, "bits", false, "treat the input as a bit string instead of text")
	return cmd
}

func (a *app) deframeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deframe <frame>",
		Short: "Recover the payload from a frame",
		Long: "Recover the payload from a frame. Count-prefixed input may hold " +
			"several frames back to back; the bits after the first are reported as rest.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			out := report.Deframed{Strategy: a.cfg.FramingStrategy()}
			if out.Strategy == framing.CountPrefix {
				out.Payload, out.Rest, err = framing.DeframeCount(domain.BitString(frame), a.cfg.CountWidth)
			} else {
				out.Payload, err = framing.Deframe(domain.BitString(frame), out.Strategy, a.cfg.FramingOptions())
			}
			if err != nil {
				return err
			}
			if len(out.Payload) > 0 && len(out.Payload)%domain.ByteSize == 0 {
				if text, err := bits.Decode(out.Payload); err == nil {
					out.Text = text
				}
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}
}

func (a *app) parityCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "parity [text...]",
		Short: "Append a parity bit to every byte-group",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := payloadFrom(cmd, args, raw, true)
			if err != nil {
				return err
			}
			res, err := parity.Apply(payload, a.cfg.ParityMode())
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&raw, "bits", false, "treat the input as a bit string instead of text")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <received>",
		Short: "Check the parity of received groups (last bit of each group is parity)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			received, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			c, err := parity.Verify(domain.BitString(received), a.cfg.ParityMode())
			if err != nil {
				return err
			}
			if err := a.write(cmd.OutOrStdout(), c); err != nil {
				return err
			}
			if !c.OK() {
				return fmt.Errorf("parity error in %d group(s)", len(c.Mismatches))
			}
			return nil
		},
	}
}

func (a *app) injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject <bits>",
		Short: "Pass bits through the channel (flips one bit with --error-mode)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if err := domain.BitString(in).ValidateGrouped(); err != nil {
				return err
			}
			inj := a.channel().Transmit(in)
			return a.write(cmd.OutOrStdout(), inj)
		},
	}
}

func (a *app) exchangeCmd() *cobra.Command {
	var bounces int
	cmd := &cobra.Command{
		Use:       "exchange [http|https]",
		Short:     "Print the steps of an HTTP or HTTPS request/response cycle",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"http", "https"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := exchange.HTTP
			if len(args) == 1 {
				var err error
				if p, err = exchange.ParseProtocol(args[0]); err != nil {
					return err
				}
			}
			if bounces <= 0 {
				return a.write(cmd.OutOrStdout(), exchange.Script(p))
			}

			flow := exchange.NewFlow(p)
			steps := make([]exchange.Step, 0, bounces)
			for i := 0; i < bounces; i++ {
				steps = append(steps, flow.Next())
			}
			return a.write(cmd.OutOrStdout(), steps)
		},
	}
	cmd.Flags().IntVar(&bounces, "bounce", 0, "show N client/server bounces instead of the full script")
	return cmd
}
