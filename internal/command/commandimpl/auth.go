package commandimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
)

const (
	msgLoginPrompt = "Log in with /login <username> <password> to continue."
	msgNotLoggedIn = "You are not logged in. " + msgLoginPrompt
)

func credentials(args string) (username, password string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// forgetCredentials removes a message that carried a password.
func (c *CommandImpl) forgetCredentials(ctx context.Context, msg *tgbotapi.Message) {
	if err := c.Telegram.DeleteMessage(ctx, msg.Chat.ID, msg.MessageID); err != nil {
		c.Logger.Warn("Failed to delete credentials message", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (c *CommandImpl) handleRegister(ctx context.Context, msg *tgbotapi.Message, args string) error {
	chatID := msg.Chat.ID
	username, password, ok := credentials(args)
	if !ok {
		_, err := c.Telegram.SendMessage(ctx, chatID, "Usage: /register <username> <password>")
		return err
	}
	c.forgetCredentials(ctx, msg)

	if err := c.Sessions.Register(ctx, username, password); err != nil {
		if apperrors.IsBadRequest(err) {
			c.reply(ctx, chatID, "❌ Registration failed: "+apperrors.GetMessage(err))
			return nil
		}
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	_, err := c.Telegram.SendMessage(ctx, chatID, fmt.Sprintf("✅ Account %s created. Now log in with /login <username> <password>.", username))
	return err
}

func (c *CommandImpl) handleLogin(ctx context.Context, msg *tgbotapi.Message, args string) error {
	chatID := msg.Chat.ID
	username, password, ok := credentials(args)
	if !ok {
		_, err := c.Telegram.SendMessage(ctx, chatID, "Usage: /login <username> <password>")
		return err
	}
	c.forgetCredentials(ctx, msg)

	if _, err := c.Sessions.Login(ctx, chatID, username, password); err != nil {
		if apperrors.IsUnauthorized(err) || apperrors.IsBadRequest(err) || apperrors.IsNotFound(err) {
			c.reply(ctx, chatID, "❌ Login failed: invalid username or password.")
			return nil
		}
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	_, err := c.Telegram.SendMessage(ctx, chatID, fmt.Sprintf("✅ Logged in as %s.", username))
	return err
}

func (c *CommandImpl) handleLogout(ctx context.Context, chatID int64) error {
	if err := c.Sessions.Logout(ctx, chatID); err != nil {
		c.reply(ctx, chatID, msgGenericError)
		return err
	}
	_, err := c.Telegram.SendMessage(ctx, chatID, "You are logged out.")
	return err
}

func (c *CommandImpl) handleWhoAmI(ctx context.Context, chatID int64) error {
	s, ok := c.loggedIn(ctx, chatID)
	if !ok {
		return nil
	}

	username, err := c.API.Me(ctx, s.Token())
	if err != nil {
		if c.rejected(ctx, s, err) {
			return nil
		}
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	_, err = c.Telegram.SendMessage(ctx, chatID, fmt.Sprintf("You are logged in as %s.", username))
	return err
}

// loggedIn loads the chat's session and prompts for login when there is
// none.
func (c *CommandImpl) loggedIn(ctx context.Context, chatID int64) (*session.ChatSession, bool) {
	s, err := c.Sessions.For(ctx, chatID)
	if err != nil {
		c.Logger.Error("Failed to load session", "chat_id", chatID, "error", err)
		c.reply(ctx, chatID, msgGenericError)
		return nil, false
	}
	if !s.LoggedIn() {
		c.reply(ctx, chatID, msgNotLoggedIn)
		return nil, false
	}
	return s, true
}

// rejected clears a session the server no longer accepts and asks the user
// to log in again.
func (c *CommandImpl) rejected(ctx context.Context, s *session.ChatSession, err error) bool {
	if !apperrors.IsUnauthorized(err) {
		return false
	}
	if clearErr := s.Clear(ctx); clearErr != nil {
		c.Logger.Warn("Failed to clear rejected session", "chat_id", s.ChatID(), "error", clearErr)
	}
	c.reply(ctx, s.ChatID(), "Your session has expired. "+msgLoginPrompt)
	return true
}
