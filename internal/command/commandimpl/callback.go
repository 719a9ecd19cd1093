package commandimpl

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
)

const (
	actCategory = "cat"
	actMore     = "more"
	actOpen     = "open"

	actNext     = "next"
	actPrev     = "prev"
	actLike     = "like"
	actBookmark = "bm"
	actDownload = "dl"
	actShare    = "share"
	actClose    = "close"
)

// callbackData is kept short: Telegram caps it at 64 bytes.
type callbackData struct {
	Action   string `json:"a"`
	Story    string `json:"s,omitempty"`
	Category string `json:"c,omitempty"`
}

func encodeCallback(d callbackData) string {
	b, _ := json.Marshal(d)
	return string(b)
}

func decodeCallback(raw string) (callbackData, error) {
	var d callbackData
	err := json.Unmarshal([]byte(raw), &d)
	return d, err
}

const msgViewerGone = "This story is no longer open."

func (c *CommandImpl) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil {
		return
	}
	chatID := q.Message.Chat.ID

	if !c.Limiter.Allow(chatID) {
		c.answer(ctx, q.ID, msgSlowDown)
		return
	}

	data, err := decodeCallback(q.Data)
	if err != nil {
		c.Logger.Error("Failed to unmarshal callback data", "data", q.Data, "error", err)
		c.answer(ctx, q.ID, "")
		return
	}

	switch data.Action {
	case actCategory:
		c.answer(ctx, q.ID, "")
		err = c.toggleCategory(ctx, chatID, q.Message.MessageID, data.Category)
	case actMore:
		c.answer(ctx, q.ID, "")
		err = c.seeMore(ctx, chatID, q.Message.MessageID, data.Category)
	case actOpen:
		c.answer(ctx, q.ID, "")
		err = c.openStory(ctx, chatID, data.Story, c.shownStory(chatID, data.Story))
	default:
		err = c.handleViewerAction(ctx, q, data)
	}

	if err != nil {
		c.Logger.Error("Error handling callback", "action", data.Action, "chat_id", chatID, "error", err)
	}
}

func (c *CommandImpl) handleViewerAction(ctx context.Context, q *tgbotapi.CallbackQuery, data callbackData) error {
	chatID := q.Message.Chat.ID
	v, ok := c.Viewers.Get(chatID)
	if !ok || v.StoryID() != data.Story || v.Snapshot().State == viewer.StateClosed {
		c.answer(ctx, q.ID, msgViewerGone)
		return nil
	}
	c.answer(ctx, q.ID, "")

	switch data.Action {
	case actNext:
		v.Next(ctx)
	case actPrev:
		v.Previous(ctx)
	case actLike:
		return v.ToggleLike(ctx)
	case actBookmark:
		return v.ToggleBookmark(ctx)
	case actDownload:
		return v.Download(ctx)
	case actShare:
		return v.Share(ctx)
	case actClose:
		c.Viewers.Close(ctx, chatID)
	default:
		c.Logger.Warn("Unknown callback action", "action", data.Action)
	}
	return nil
}

func (c *CommandImpl) answer(ctx context.Context, callbackID, text string) {
	if err := c.Telegram.AnswerCallback(ctx, callbackID, text); err != nil {
		c.Logger.Warn("Failed to answer callback", "error", err)
	}
}
