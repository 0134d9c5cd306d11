package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// NewContextWithLogger binds the process logger to ctx. In debug mode it
// renders a human-readable console; otherwise it emits JSON lines for the
// hosting platform's log drain. The returned func flushes and closes the
// writer.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	zerolog.TimeFieldFormat = time.RFC3339

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Diode keeps logging off the webhook path: writes never block, slow
	// drains drop instead of stalling the handler.
	wr := diode.NewWriter(os.Stdout, 1000, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	var out io.Writer = wr
	if debug {
		out = zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
		}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		Logger()

	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
