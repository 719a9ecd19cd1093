package janitorimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/janitor"
	"github.com/orgball2608/stories-telegram-bot/internal/ratelimit"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	sessionCleanupEvery = time.Hour
	viewerSweepEvery    = time.Minute
	limiterPruneEvery   = 10 * time.Minute
	limiterIdle         = time.Hour
)

type Opts struct {
	fx.In

	Sessions *session.Manager
	Viewers  *viewer.Registry
	Limiter  ratelimit.Limiter
	Clock    clockwork.Clock
	Config   *config.Config
	Logger   logger.Logger
}

type JanitorImpl struct {
	Sessions *session.Manager
	Viewers  *viewer.Registry
	Limiter  ratelimit.Limiter
	Clock    clockwork.Clock
	Config   *config.Config
	Logger   logger.Logger
}

func New(opts Opts) *JanitorImpl {
	return &JanitorImpl{
		Sessions: opts.Sessions,
		Viewers:  opts.Viewers,
		Limiter:  opts.Limiter,
		Clock:    opts.Clock,
		Config:   opts.Config,
		Logger:   opts.Logger.WithComponent("Janitor"),
	}
}

var _ janitor.Client = (*JanitorImpl)(nil)

func (j *JanitorImpl) Schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithClock(j.Clock))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	jobs := []struct {
		name  string
		every time.Duration
		task  func(ctx context.Context)
	}{
		{"session cleanup", sessionCleanupEvery, j.cleanupSessions},
		{"viewer sweep", viewerSweepEvery, j.sweepViewers},
		{"limiter prune", limiterPruneEvery, j.pruneLimiter},
	}

	for _, job := range jobs {
		_, err = scheduler.NewJob(
			gocron.DurationJob(job.every),
			gocron.NewTask(func() {
				if ctx.Err() != nil {
					return
				}
				job.task(ctx)
			}),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = scheduler.Shutdown()
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	scheduler.Start()
	j.Logger.Info("Cleanup jobs scheduled", "jobs", len(jobs))

	go func() {
		<-ctx.Done()
		j.Logger.Info("Stopping cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			j.Logger.Error("Failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}

func (j *JanitorImpl) cleanupSessions(ctx context.Context) {
	taskCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := j.Sessions.Cleanup(taskCtx, j.Config.Session.MaxAge)
	if err != nil {
		j.Logger.Error("Failed to clean up sessions", "error", err)
		return
	}
	if n > 0 {
		j.Logger.Info("Removed stale sessions", "count", n)
	}
}

func (j *JanitorImpl) sweepViewers(context.Context) {
	j.Viewers.Sweep(j.Config.Viewer.IdleTimeout)
}

func (j *JanitorImpl) pruneLimiter(context.Context) {
	if n := j.Limiter.Prune(limiterIdle); n > 0 {
		j.Logger.Debug("Pruned idle rate limiters", "count", n)
	}
}
