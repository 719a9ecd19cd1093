package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/orgball2608/stories-telegram-bot/internal/command"
	"github.com/orgball2608/stories-telegram-bot/internal/command/commandimpl"
	"github.com/orgball2608/stories-telegram-bot/internal/feed"
	"github.com/orgball2608/stories-telegram-bot/internal/janitor"
	"github.com/orgball2608/stories-telegram-bot/internal/janitor/janitorimpl"
	"github.com/orgball2608/stories-telegram-bot/internal/migrations"
	"github.com/orgball2608/stories-telegram-bot/internal/ratelimit"
	repositories "github.com/orgball2608/stories-telegram-bot/internal/repositories/fx"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi/storyapiimpl"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/orgball2608/stories-telegram-bot/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

const commandRestartDelay = 5 * time.Second

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		clockwork.NewRealClock,
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			storyapiimpl.New,
			fx.As(new(storyapi.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		fx.Annotate(
			janitorimpl.New,
			fx.As(new(janitor.Client)),
		),
		session.New,
		feed.New,
		viewer.NewRegistry,
		ratelimit.New,
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(cfg *config.Config, log logger.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrations.Dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, cmdClient command.Client,
	janitorClient janitor.Client, viewers *viewer.Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	server := newHTTPServer(log, cfg)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
				}
			}()

			if err := janitorClient.Schedule(ctx); err != nil {
				log.Error("Failed to schedule cleanup jobs", "error", err)
			}

			go func() {
				for {
					err := cmdClient.HandleCommand(ctx)
					if ctx.Err() != nil {
						return
					}
					log.Error("Command handler stopped, restarting", "error", err)

					select {
					case <-ctx.Done():
						return
					case <-time.After(commandRestartDelay):
					}
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			viewers.DismissAll()
			return server.Shutdown(stopCtx)
		},
	})
}

func newHTTPServer(log logger.Logger, cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	log.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
