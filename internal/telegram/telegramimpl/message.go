package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/pkg/retry"
)

func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.bot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.bot.StopReceivingUpdates()
}

func (tg *TelegramImpl) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	return tg.Send(ctx, chatID, telegram.Message{Text: text})
}

func (tg *TelegramImpl) Send(ctx context.Context, chatID int64, msg telegram.Message) (int, error) {
	var sent tgbotapi.Message
	err := tg.do(ctx, "send", func() error {
		var err error
		sent, err = tg.bot.Send(buildSend(chatID, msg))
		return err
	})
	if err != nil {
		tg.logger.Error("Error sending message", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.logger.Debug("Message sent", "chat_id", chatID, "message_id", sent.MessageID)
	return sent.MessageID, nil
}

func (tg *TelegramImpl) Edit(ctx context.Context, chatID int64, messageID int, msg telegram.Message) error {
	err := tg.do(ctx, "edit", func() error {
		_, err := tg.bot.Request(buildEdit(chatID, messageID, msg))
		return err
	})
	if err != nil && !isNotModified(err) {
		tg.logger.Error("Error editing message", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) SendDocumentByURL(ctx context.Context, chatID int64, url, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileURL(url))
	doc.Caption = caption

	err := tg.do(ctx, "send document", func() error {
		_, err := tg.bot.Send(doc)
		return err
	})
	if err != nil {
		tg.logger.Error("Error sending document", "chat_id", chatID, "url", url, "error", err)
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	err := tg.do(ctx, "delete", func() error {
		_, err := tg.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := tg.bot.Request(tgbotapi.NewCallback(callbackID, text))
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// do retries transient Telegram failures. Client errors other than rate
// limiting are final.
func (tg *TelegramImpl) do(ctx context.Context, name string, op func() error) error {
	return retry.Do(ctx, tg.logger, name, func() error {
		err := op()
		if err == nil {
			return nil
		}
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}, tg.retry)
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

func parseMode(msg telegram.Message) string {
	if msg.Markdown {
		return tgbotapi.ModeMarkdownV2
	}
	return ""
}

func buildSend(chatID int64, msg telegram.Message) tgbotapi.Chattable {
	switch msg.Kind {
	case telegram.MediaPhoto:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(msg.URL))
		photo.Caption = msg.Text
		photo.ParseMode = parseMode(msg)
		if msg.Keyboard != nil {
			photo.ReplyMarkup = *msg.Keyboard
		}
		return photo
	case telegram.MediaVideo:
		video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(msg.URL))
		video.Caption = msg.Text
		video.ParseMode = parseMode(msg)
		if msg.Keyboard != nil {
			video.ReplyMarkup = *msg.Keyboard
		}
		return video
	default:
		text := tgbotapi.NewMessage(chatID, msg.Text)
		text.ParseMode = parseMode(msg)
		if msg.Keyboard != nil {
			text.ReplyMarkup = *msg.Keyboard
		}
		return text
	}
}

func buildEdit(chatID int64, messageID int, msg telegram.Message) tgbotapi.Chattable {
	base := tgbotapi.BaseEdit{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: msg.Keyboard,
	}

	switch msg.Kind {
	case telegram.MediaPhoto:
		media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(msg.URL))
		media.Caption = msg.Text
		media.ParseMode = parseMode(msg)
		return tgbotapi.EditMessageMediaConfig{BaseEdit: base, Media: media}
	case telegram.MediaVideo:
		media := tgbotapi.NewInputMediaVideo(tgbotapi.FileURL(msg.URL))
		media.Caption = msg.Text
		media.ParseMode = parseMode(msg)
		return tgbotapi.EditMessageMediaConfig{BaseEdit: base, Media: media}
	default:
		return tgbotapi.EditMessageTextConfig{
			BaseEdit:  base,
			Text:      msg.Text,
			ParseMode: parseMode(msg),
		}
	}
}
