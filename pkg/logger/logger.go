package logger

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithComponent(name string) Logger
}

type Opts struct {
	Env       string
	SentryDSN string
}

type Impl struct {
	*slog.Logger
}

func New(opts Opts) *Impl {
	level := slog.LevelDebug
	var zl zerolog.Logger
	if opts.Env == "production" {
		level = slog.LevelInfo
		zl = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}).With().Timestamp().Logger()
	}

	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler(),
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Env,
		})
		if err != nil {
			zl.Warn().Err(err).Msg("Sentry init failed, error reporting disabled")
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	return &Impl{
		Logger: slog.New(slogmulti.Fanout(handlers...)),
	}
}

func (l *Impl) WithComponent(name string) Logger {
	return &Impl{Logger: l.Logger.With("component", name)}
}

// Printf lets the logger act as an fx.Printer.
func (l *Impl) Printf(format string, args ...any) {
	l.Logger.Debug(fmt.Sprintf(format, args...))
}

// Flush waits for buffered Sentry events to be delivered.
func (l *Impl) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

var _ Logger = (*Impl)(nil)
