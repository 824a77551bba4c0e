// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger at the given level. Unknown level strings
// fall back to info so a bad config value never silences the process.
func Setup(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
