package commandimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/feed"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
)

const (
	categoriesPerRow = 3
	storiesPerRow    = 4
)

// feedState is what a chat's feed message currently shows.
type feedState struct {
	selection feed.Selection
	expanded  map[string]bool
	messageID int
}

func (c *CommandImpl) feedState(chatID int64) feedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.feeds[chatID]
	if !ok {
		return feedState{expanded: map[string]bool{}}
	}
	out := *st
	out.expanded = make(map[string]bool, len(st.expanded))
	for k, v := range st.expanded {
		out.expanded[k] = v
	}
	return out
}

func (c *CommandImpl) updateFeedState(chatID int64, update func(st *feedState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.feeds[chatID]
	if !ok {
		st = &feedState{expanded: map[string]bool{}}
		c.feeds[chatID] = st
	}
	update(st)
}

func (c *CommandImpl) handleFeed(ctx context.Context, chatID int64) error {
	st := c.feedState(chatID)
	msg := c.feedMessage(ctx, chatID, st)

	id, err := c.Telegram.Send(ctx, chatID, msg)
	if err != nil {
		return err
	}
	c.updateFeedState(chatID, func(st *feedState) { st.messageID = id })
	return nil
}

func (c *CommandImpl) toggleCategory(ctx context.Context, chatID int64, messageID int, category string) error {
	c.updateFeedState(chatID, func(st *feedState) {
		st.selection = st.selection.Toggle(category)
	})
	return c.refreshFeed(ctx, chatID, messageID)
}

func (c *CommandImpl) seeMore(ctx context.Context, chatID int64, messageID int, category string) error {
	c.updateFeedState(chatID, func(st *feedState) {
		st.expanded[category] = true
	})
	return c.refreshFeed(ctx, chatID, messageID)
}

func (c *CommandImpl) refreshFeed(ctx context.Context, chatID int64, messageID int) error {
	st := c.feedState(chatID)
	c.updateFeedState(chatID, func(st *feedState) { st.messageID = messageID })
	return c.Telegram.Edit(ctx, chatID, messageID, c.feedMessage(ctx, chatID, st))
}

func (c *CommandImpl) feedMessage(ctx context.Context, chatID int64, st feedState) telegram.Message {
	sections := c.Feed.Load(ctx, st.selection)
	var visible []domain.Story
	for i := range sections {
		sections[i].Expanded = st.expanded[sections[i].Category]
		visible = append(visible, sections[i].Visible()...)
	}
	c.remember(chatID, visible)
	return renderFeed(st.selection, sections)
}

func renderFeed(sel feed.Selection, sections []feed.Section) telegram.Message {
	var text strings.Builder
	text.WriteString("📚 Stories")

	rows := categoryRows(sel)
	n := 0
	for _, section := range sections {
		text.WriteString("\n\n" + section.Category + "\n")
		switch {
		case section.Failed:
			text.WriteString("Could not load this category.\n")
			continue
		case len(section.Stories) == 0:
			text.WriteString("No stories yet.\n")
			continue
		}

		var buttons []tgbotapi.InlineKeyboardButton
		for _, story := range section.Visible() {
			n++
			text.WriteString(storyLine(n, story))
			buttons = append(buttons, openButton(n, story.ID))
		}
		rows = append(rows, chunk(buttons, storiesPerRow)...)

		if section.HasMore() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("See more %s (%d)", section.Category, len(section.Stories)-feed.PreviewSize),
					encodeCallback(callbackData{Action: actMore, Category: section.Category}),
				),
			))
		}
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return telegram.Message{Text: text.String(), Keyboard: &kb}
}

func categoryRows(sel feed.Selection) [][]tgbotapi.InlineKeyboardButton {
	names := append([]string{domain.CategoryAll}, domain.Categories...)
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, name := range names {
		label := name
		if sel.Has(name) {
			label = "✅ " + name
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label,
			encodeCallback(callbackData{Action: actCategory, Category: name})))
	}
	return chunk(buttons, categoriesPerRow)
}

func storyLine(n int, story domain.Story) string {
	heading, description := feed.Summary(story)
	if heading == "" {
		heading = story.Title
	}
	line := fmt.Sprintf("%d. %s", n, heading)
	if description != "" {
		line += " " + description
	}
	return line + "\n"
}

func openButton(n int, storyID string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("▶ %d", n),
		encodeCallback(callbackData{Action: actOpen, Story: storyID}))
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, size int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		end := min(size, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[:end]...))
		buttons = buttons[end:]
	}
	return rows
}

// renderStoryList draws a flat list of stories with open buttons.
func renderStoryList(title, empty string, stories []domain.Story) telegram.Message {
	if len(stories) == 0 {
		return telegram.Message{Text: empty}
	}

	var text strings.Builder
	text.WriteString(title + "\n\n")
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(stories))
	for i, story := range stories {
		text.WriteString(storyLine(i+1, story))
		buttons = append(buttons, openButton(i+1, story.ID))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(chunk(buttons, storiesPerRow)...)
	return telegram.Message{Text: text.String(), Keyboard: &kb}
}

func (c *CommandImpl) handleMyStories(ctx context.Context, chatID int64) error {
	s, ok := c.loggedIn(ctx, chatID)
	if !ok {
		return nil
	}

	stories, err := c.Feed.Mine(ctx, s.Token())
	if err != nil {
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	c.remember(chatID, stories)
	_, err = c.Telegram.Send(ctx, chatID, renderStoryList("📝 Your stories", "You have not posted any stories yet. Use /addstory to post one.", stories))
	return err
}

func (c *CommandImpl) handleBookmarks(ctx context.Context, chatID int64) error {
	s, ok := c.loggedIn(ctx, chatID)
	if !ok {
		return nil
	}

	stories, err := c.Feed.Bookmarked(ctx, s.Token())
	if err != nil {
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	c.remember(chatID, stories)
	_, err = c.Telegram.Send(ctx, chatID, renderStoryList("🔖 Your bookmarks", "You have no bookmarks yet.", stories))
	return err
}
