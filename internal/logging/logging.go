// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger: pretty console output in development,
// JSON otherwise, at the given level (info when unparseable)
func Setup(env, level string) zerolog.Level {
	return SetupWriter(os.Stdout, env, level)
}

// SetupWriter is Setup with an explicit output
func SetupWriter(out io.Writer, env, level string) zerolog.Level {
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}

	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	return lvl
}
