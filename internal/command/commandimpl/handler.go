package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `👋 Welcome to Stories!

BROWSE:
/feed - Stories by category. Use the buttons to filter.
/story <id> - Open a story as a slideshow.

ACCOUNT:
/register <username> <password> - Create an account.
/login <username> <password> - Log in to like, bookmark and post.
/logout - Log out.
/whoami - Show who you are logged in as.

YOUR CONTENT:
/mystories - Stories you posted.
/bookmarks - Stories you bookmarked.
/addstory - Post a story. Send it like this:
  /addstory <title>
  <category> | <image or video url> | <heading> | <description>
  (3 to 6 slide lines)
/editstory <id> - Replace the slides of your story, same slide lines as /addstory.

Categories: Food, Health and Fitness, Travel, Movie, Education.
Type /help at any time to see this guide.`

const (
	msgUnknownCommand = "Unknown command. Type /help to see the list of available commands."
	msgSlowDown       = "You're going too fast. Please wait a few seconds."
	msgGenericError   = "Something went wrong. Please try again later."
)

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}

			go c.handleUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if u.CallbackQuery != nil {
		c.handleCallback(ctx, u.CallbackQuery)
		return
	}

	if u.Message == nil || !u.Message.IsCommand() {
		return
	}

	chatID := u.Message.Chat.ID
	c.Logger.Info("Command received", "chat_id", chatID, "command", u.Message.Command())

	if !c.Limiter.Allow(chatID) {
		c.reply(ctx, chatID, msgSlowDown)
		return
	}

	if err := c.processCommand(ctx, u.Message); err != nil {
		c.Logger.Error("Error processing command", "command", u.Message.Command(), "error", err)
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := msg.CommandArguments()

	switch msg.Command() {
	case "start", "help":
		_, err := c.Telegram.SendMessage(ctx, chatID, helpMessage)
		return err
	case "register":
		return c.handleRegister(ctx, msg, args)
	case "login":
		return c.handleLogin(ctx, msg, args)
	case "logout":
		return c.handleLogout(ctx, chatID)
	case "whoami":
		return c.handleWhoAmI(ctx, chatID)
	case "feed":
		return c.handleFeed(ctx, chatID)
	case "mystories":
		return c.handleMyStories(ctx, chatID)
	case "bookmarks":
		return c.handleBookmarks(ctx, chatID)
	case "story":
		return c.handleStory(ctx, chatID, args)
	case "addstory":
		return c.handleAddStory(ctx, chatID, args)
	case "editstory":
		return c.handleEditStory(ctx, chatID, args)
	default:
		_, err := c.Telegram.SendMessage(ctx, chatID, msgUnknownCommand)
		return err
	}
}

// reply sends a plain message and only logs failures.
func (c *CommandImpl) reply(ctx context.Context, chatID int64, text string) {
	if _, err := c.Telegram.SendMessage(ctx, chatID, text); err != nil {
		c.Logger.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}
