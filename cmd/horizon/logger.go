package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// zeroLogger implements calculation.Logger on top of zerolog
type zeroLogger struct {
	log zerolog.Logger
}

func newLogger(w io.Writer, level string, debug bool) zeroLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zeroLogger{log: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

func (l zeroLogger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }
func (l zeroLogger) Infof(format string, args ...any)  { l.log.Info().Msgf(format, args...) }
func (l zeroLogger) Warnf(format string, args ...any)  { l.log.Warn().Msgf(format, args...) }
func (l zeroLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
