package janitorimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/ratelimit"
	mock_session "github.com/orgball2608/stories-telegram-bot/internal/repositories/session/mocks"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	mock_storyapi "github.com/orgball2608/stories-telegram-bot/internal/storyapi/mocks"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newJanitor(t *testing.T) (*JanitorImpl, *mock_session.MockRepository, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	repo := mock_session.NewMockRepository(ctrl)
	clock := clockwork.NewFakeClock()
	log := logger.NewNop()

	cfg := &config.Config{}
	cfg.Session.MaxAge = 24 * time.Hour
	cfg.Viewer.IdleTimeout = 10 * time.Minute

	j := New(Opts{
		Sessions: session.New(session.Opts{Repo: repo, API: mock_storyapi.NewMockClient(ctrl), Clock: clock, Logger: log}),
		Viewers:  viewer.NewRegistry(viewer.RegistryOpts{Clock: clock, Logger: log}),
		Limiter:  ratelimit.NewInMemoryLimiter(5, 5*time.Second, 5, clock),
		Clock:    clock,
		Config:   cfg,
		Logger:   log,
	})
	return j, repo, clock
}

func TestCleanupSessionsUsesMaxAge(t *testing.T) {
	j, repo, _ := newJanitor(t)
	repo.EXPECT().CleanupOldRecords(gomock.Any(), 24*time.Hour).Return(int64(2), nil)
	j.cleanupSessions(context.Background())

	repo.EXPECT().CleanupOldRecords(gomock.Any(), 24*time.Hour).Return(int64(0), errors.New("db down"))
	j.cleanupSessions(context.Background())
}

func TestSweepViewersClosesIdleViewers(t *testing.T) {
	j, _, clock := newJanitor(t)

	v := viewer.New(viewer.Opts{Clock: clock, Logger: logger.NewNop()})
	j.Viewers.Put(1, v)

	clock.Advance(11 * time.Minute)
	j.sweepViewers(context.Background())

	assert.Zero(t, j.Viewers.Len())
	assert.Equal(t, viewer.StateClosed, v.Snapshot().State)
}

func TestPruneLimiter(t *testing.T) {
	j, _, clock := newJanitor(t)

	j.Limiter.Allow(1)
	clock.Advance(2 * time.Hour)
	j.pruneLimiter(context.Background())

	assert.Zero(t, j.Limiter.Prune(0))
}

func TestScheduleStopsWithContext(t *testing.T) {
	j, _, _ := newJanitor(t)
	ctx, cancel := context.WithCancel(context.Background())

	assert.NoError(t, j.Schedule(ctx))
	cancel()
}
