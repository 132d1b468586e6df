package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// setVerbose lowers the level to debug for -verbose runs.
func setVerbose(on bool) {
	if on {
		logger = logger.Level(zerolog.DebugLevel)
	}
}

func logf(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

func warnf(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func fatalf(format string, args ...any) {
	logger.Error().Msg(strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " "))
	os.Exit(1)
}
