// Package monitoring holds the process-wide logging setup.
//
// Structured logs use zerolog. Logf is kept as a printf-style hook for
// code that only needs a diagnostic line (the migration logger, for
// example); it forwards to the global zerolog logger by default.
package monitoring

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/banshee-data/beaconmap/internal/timeutil"
)

// Logf is the package-level diagnostic logger. It may be replaced by
// SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	zlog.Debug().Msgf(format, v...)
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// New builds a zerolog logger writing to w at the named level. Unknown
// levels fall back to info. A nil writer means stderr.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// Install makes l the global zerolog logger and routes Logf through it.
func Install(l zerolog.Logger) {
	zlog.Logger = l
	Logf = func(format string, v ...interface{}) {
		l.Debug().Msgf(format, v...)
	}
}

// Timed logs how long the named step took, as measured by clock, once
// the returned func runs. A nil clock uses the system time:
//
//	defer monitoring.Timed(clock, logger, "align")()
func Timed(clock timeutil.Clock, l zerolog.Logger, name string) func() {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	start := clock.Now()
	return func() {
		elapsed := clock.Since(start)
		l.Info().
			Str("step", name).
			Int64("elapsed_ms", elapsed.Milliseconds()).
			Msgf("%s took %dms to finish", name, elapsed.Milliseconds())
	}
}
