package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/framelab/internal/report"
	"github.com/bft-labs/framelab/pkg/bits"
	"github.com/bft-labs/framelab/pkg/framing"
)

// frameLines encodes and frames every line concurrently. Results keep the
// input order; a line that fails carries its error instead of a frame.
func frameLines(ctx context.Context, lines []string, workers int, strategy framing.Strategy, opts framing.Options) ([]report.Item, error) {
	items := make([]report.Item, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := report.Item{Line: i + 1, Text: line}
			payload, err := bits.Encode(line)
			if err == nil {
				var res framing.Result
				if res, err = framing.Frame(payload, strategy, opts); err == nil {
					item.Result = &res
				}
			}
			if err != nil {
				item.Error = err.Error()
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Frame every line of a file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			items, err := frameLines(ctx, lines, a.cfg.Workers, a.cfg.FramingStrategy(), a.cfg.FramingOptions())
			if err != nil {
				return err
			}

			failed := 0
			for _, it := range items {
				if it.Error != "" {
					failed++
				}
			}
			a.log.Info().
				Int("lines", len(items)).
				Int("failed", failed).
				Int("workers", a.cfg.Workers).
				Msg("batch complete")

			return a.write(cmd.OutOrStdout(), items)
		},
	}
}
