package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/orgball2608/stories-telegram-bot/pkg/retry"
	"go.uber.org/fx"
)

// botAPI is the subset of *tgbotapi.BotAPI in use.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	bot    botAPI
	logger logger.Logger
	retry  retry.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.BotToken)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	opts.Logger.Info("Authorized on Telegram", "bot", tgBot.Self.UserName)
	return newWithBot(tgBot, opts.Logger), nil
}

func newWithBot(bot botAPI, log logger.Logger) *TelegramImpl {
	return &TelegramImpl{
		bot:    bot,
		logger: log.WithComponent("Telegram"),
		retry:  retry.DefaultConfig(),
	}
}

var _ telegram.Client = (*TelegramImpl)(nil)
