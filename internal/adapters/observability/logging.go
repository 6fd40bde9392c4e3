package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const appName = "everjourney"

// NewLogger returns the process logger tagged with app and service (web, seed).
// APP_ENV=dev (or development) switches to a console writer at debug level.
func NewLogger(env, service string) zerolog.Logger {
	return newLogger(os.Stdout, env, service)
}

func newLogger(w io.Writer, env, service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stdout}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("app", appName).
		Str("service", service).
		Str("env", env).
		Logger()
}
