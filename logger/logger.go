package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"combatlog_check/share"
)

type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool
}

func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Logger()
}

func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}

// InitSentry enables error capture. An empty dsn leaves sentry disabled.
func InitSentry(dsn string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(
		sentry.ClientOptions{
			Dsn:           dsn,
			HTTPTransport: new(http.Transport),
		},
	)
	return errors.WithStack(err)
}

// Flush waits for buffered sentry events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// CaptureError logs err with its stack and forwards it to sentry. Closed
// contexts are not reported.
func CaptureError(err error, msg string) {
	if err == nil || share.IsContextClosedError(err) {
		return
	}

	log.Error().Stack().Err(errors.WithStack(err)).Msg(msg)
	sentry.CaptureException(err)
}
