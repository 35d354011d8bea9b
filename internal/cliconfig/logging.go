package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	flog "github.com/bft-labs/framelab/pkg/log"
)

var logger zerolog.Logger

func init() {
	logger = flog.NewConsoleLogger(os.Stderr, zerolog.InfoLevel)
}

// Logger returns the CLI logger.
func Logger() zerolog.Logger {
	return logger
}

// SetLogLevel changes the level of the logger returned by Logger.
func SetLogLevel(raw string) error {
	lvl, err := flog.ParseLevel(raw)
	if err != nil {
		return err
	}
	logger = logger.Level(lvl)
	return nil
}
