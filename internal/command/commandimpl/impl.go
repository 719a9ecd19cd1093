package commandimpl

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/command"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/feed"
	"github.com/orgball2608/stories-telegram-bot/internal/ratelimit"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	API      storyapi.Client
	Sessions *session.Manager
	Feed     *feed.Service
	Viewers  *viewer.Registry
	Limiter  ratelimit.Limiter
	Clock    clockwork.Clock
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	API      storyapi.Client
	Sessions *session.Manager
	Feed     *feed.Service
	Viewers  *viewer.Registry
	Limiter  ratelimit.Limiter
	Clock    clockwork.Clock
	Logger   logger.Logger
	Config   *config.Config

	mu    sync.Mutex
	feeds map[int64]*feedState
	shown map[int64]map[string]domain.Story
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		API:      opts.API,
		Sessions: opts.Sessions,
		Feed:     opts.Feed,
		Viewers:  opts.Viewers,
		Limiter:  opts.Limiter,
		Clock:    opts.Clock,
		Logger:   opts.Logger.WithComponent("Commands"),
		Config:   opts.Config,
		feeds:    make(map[int64]*feedState),
		shown:    make(map[int64]map[string]domain.Story),
	}
}

var _ command.Client = (*CommandImpl)(nil)
