package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orgball2608/stories-telegram-bot/internal/app"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

const flushTimeout = 2 * time.Second

func main() {
	log := logger.New(logger.Opts{})

	application := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		log.Flush(flushTimeout)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := application.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		log.Flush(flushTimeout)
		os.Exit(1)
	}
	log.Flush(flushTimeout)
}
