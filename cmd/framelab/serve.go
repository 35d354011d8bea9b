package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/framelab/pkg/api"
	"github.com/bft-labs/framelab/pkg/channel"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			seed := a.cfg.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			srv := api.NewServer(
				api.WithLogger(a.logger),
				api.WithSource(channel.NewSource(seed)),
				api.WithDefaults(api.Defaults{
					Strategy: a.cfg.FramingStrategy(),
					Framing:  a.cfg.FramingOptions(),
					Parity:   a.cfg.ParityMode(),
				}),
			)
			return srv.ListenAndServe(ctx, a.cfg.Listen)
		},
	}
}
