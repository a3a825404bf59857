package im

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

const logLabel = "mincss"

// NewLogger returns a labelled console logger. Logs must never share the
// output stream, so w is normally os.Stderr.
func NewLogger(w io.Writer, debug bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Str("label", logLabel).
		Logger()
	return &l
}
