package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/framelab/internal/cliconfig"
	"github.com/bft-labs/framelab/internal/report"
	"github.com/bft-labs/framelab/pkg/channel"
	flog "github.com/bft-labs/framelab/pkg/log"
	"github.com/bft-labs/framelab/pkg/prefs"
)

const helpDescription = `
Encode text to bits, frame it, protect it with parity and push it through
a noisy channel, one step at a time.

Framing strategies:
  count          8-bit length prefix (wraps past 255 bits; see --count-width)
  byte-stuffing  FLAG 01111110 delimiters, ESC 11100011 escapes
  bit-stuffing   FLAG delimiters, a 0 after every --threshold ones

Configure via $HOME/.framelab/config.toml, FRAMELAB_* env vars, or flags.
Saved preferences (framelab prefs save) sit just above the defaults.
`

var exampleUsage = strings.TrimSpace(`
  framelab encode Hi
  framelab frame --strategy bit --threshold 3 Hello
  framelab parity --parity odd AB
  framelab transmit --error-mode --seed 7 Hello
  framelab batch --workers 8 -o json lines.txt
  framelab serve --listen :8470
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the resolved configuration shared by all subcommands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string

	log    zerolog.Logger
	logger flog.Logger
}

func main() {
	a := &app{cfg: cliconfig.DefaultConfig()}
	a.log = cliconfig.Logger()

	if err := newRootCmd(a).Execute(); err != nil {
		a.log.Error().Err(err).Msg("framelab")
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "framelab",
		Short:         "Data-link framing, parity and channel error playground",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.framelab/config.toml)")
	f.StringVar(&a.cfg.Strategy, "strategy", a.cfg.Strategy, "framing strategy: count, byte-stuffing or bit-stuffing")
	f.IntVar(&a.cfg.Threshold, "threshold", a.cfg.Threshold, "bit stuffing threshold (values below 1 are clamped)")
	f.IntVar(&a.cfg.CountWidth, "count-width", a.cfg.CountWidth, "size in bits of the count prefix field")
	f.StringVar(&a.cfg.Parity, "parity", a.cfg.Parity, "parity mode: even or odd")
	f.BoolVar(&a.cfg.ErrorMode, "error-mode", a.cfg.ErrorMode, "flip one random bit of every transmission")
	f.Uint64Var(&a.cfg.Seed, "seed", a.cfg.Seed, "seed for error injection (0 seeds from the clock)")
	f.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "output format: text, json or yaml")
	f.StringVar(&a.cfg.PrefsDir, "prefs-dir", a.cfg.PrefsDir, "directory holding prefs.json (default: $HOME/.framelab)")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error or off")
	f.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "concurrent workers for batch")
	f.DurationVar(&a.cfg.Debounce, "debounce", a.cfg.Debounce, "quiet period before watch re-runs")
	f.StringVar(&a.cfg.Listen, "listen", a.cfg.Listen, "address for serve")
	if err := root.PersistentFlags().MarkHidden("prefs-dir"); err != nil {
		a.log.Info().Err(err).Msg("failed to hide prefs-dir flag")
	}

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.frameCmd(),
		a.deframeCmd(),
		a.parityCmd(),
		a.checkCmd(),
		a.injectCmd(),
		a.transmitCmd(),
		a.exchangeCmd(),
		a.batchCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.prefsCmd(),
	)
	return root
}

// load resolves configuration: defaults, saved prefs, config file, env
// (FRAMELAB_*), then explicitly set flags.
func (a *app) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	// The config file is read up front because it may move the prefs
	// directory; its values are applied after the prefs.
	var fc cliconfig.FileConfig
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		var err error
		if fc, err = cliconfig.LoadFileConfig(cfgFile); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	p, err := prefs.NewFileRepository(resolvePrefsDir(a.cfg.PrefsDir, fc, changed)).Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := cliconfig.ApplyPrefs(&a.cfg, p, changed); err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
		return err
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if err := cliconfig.SetLogLevel(a.cfg.LogLevel); err != nil {
		return err
	}
	a.log = cliconfig.Logger()
	a.logger = flog.NewZerologAdapterWithLogger(a.log)

	a.log.Debug().Interface("config", a.cfg).Msg("configuration")
	return nil
}

// resolvePrefsDir picks the prefs directory: flag, env, config file, then
// the default under $HOME.
func resolvePrefsDir(flagDir string, fc cliconfig.FileConfig, changed map[string]bool) string {
	if changed["prefs-dir"] && flagDir != "" {
		return flagDir
	}
	if v := os.Getenv("FRAMELAB_PREFS_DIR"); v != "" {
		return v
	}
	if fc.PrefsDir != "" {
		return fc.PrefsDir
	}
	return cliconfig.DefaultPrefsDir()
}

// channel builds the transmission channel from the error-mode settings.
func (a *app) channel() *channel.Channel {
	seed := a.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return channel.New(a.cfg.ErrorMode, channel.NewSource(seed), channel.WithLogger(a.logger))
}

func (a *app) prefsRepo() *prefs.FileRepository {
	return prefs.NewFileRepository(a.cfg.PrefsDir)
}

func (a *app) write(w io.Writer, v interface{}) error {
	return report.Write(w, a.cfg.Format(), v)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// inputText joins args with spaces, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
