package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go

type MediaKind int

const (
	MediaText MediaKind = iota
	MediaPhoto
	MediaVideo
)

// Message is an outgoing message. For photo and video messages Text is the
// caption and URL the media Telegram fetches by itself.
type Message struct {
	Kind     MediaKind
	URL      string
	Text     string
	Markdown bool
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	Send(ctx context.Context, chatID int64, msg Message) (int, error)
	// Edit replaces a message in place. The message kind cannot change
	// between text and media.
	Edit(ctx context.Context, chatID int64, messageID int, msg Message) error
	SendDocumentByURL(ctx context.Context, chatID int64, url, caption string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
