package commandimpl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/formatter"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
)

func (c *CommandImpl) handleStory(ctx context.Context, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		_, err := c.Telegram.SendMessage(ctx, chatID, "Please provide a story id: /story <id>")
		return err
	}
	return c.openStory(ctx, chatID, id, nil)
}

// openStory starts a slideshow in the chat, replacing any open one. A story
// the chat was just shown is opened as is; otherwise it is fetched by id.
func (c *CommandImpl) openStory(ctx context.Context, chatID int64, storyID string, story *domain.Story) error {
	s, err := c.Sessions.For(ctx, chatID)
	if err != nil {
		c.reply(ctx, chatID, msgGenericError)
		return err
	}

	ui := &chatUI{
		chatID:    chatID,
		telegram:  c.Telegram,
		clock:     c.Clock,
		noticeTTL: c.Config.Viewer.NoticeTTL,
		logger:    c.Logger,
		home: func(ctx context.Context) error {
			return c.handleFeed(ctx, chatID)
		},
	}

	var v *viewer.Viewer
	v = viewer.New(viewer.Opts{
		API:         c.API,
		Session:     s,
		UI:          ui,
		Clock:       c.Clock,
		AutoAdvance: c.Config.Viewer.AutoAdvance,
		Logger:      c.Logger,
		OnClose: func(ctx context.Context) {
			c.Viewers.Remove(chatID, v)
			if err := ui.Home(ctx); err != nil {
				c.Logger.Warn("Failed to return to feed", "chat_id", chatID, "error", err)
			}
		},
		OnLoginRequired: func(ctx context.Context) {
			c.reply(ctx, chatID, msgLoginPrompt)
		},
	})

	c.Viewers.Put(chatID, v)
	if story != nil {
		return v.Open(ctx, *story)
	}
	return v.OpenByID(ctx, storyID)
}

// remember records the stories a list message offers to open.
func (c *CommandImpl) remember(chatID int64, stories []domain.Story) {
	byID := make(map[string]domain.Story, len(stories))
	for _, s := range stories {
		byID[s.ID] = s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown[chatID] = byID
}

func (c *CommandImpl) shownStory(chatID int64, id string) *domain.Story {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.shown[chatID][id]
	if !ok {
		return nil
	}
	return &s
}

// chatUI draws a viewer into a single Telegram message that is edited in
// place while the message kind allows it.
type chatUI struct {
	chatID    int64
	telegram  telegram.Client
	clock     clockwork.Clock
	noticeTTL time.Duration
	logger    logger.Logger
	home      func(ctx context.Context) error

	mu        sync.Mutex
	messageID int
	kind      telegram.MediaKind
}

func (u *chatUI) Render(ctx context.Context, snap viewer.Snapshot) error {
	msg := slideMessage(snap)

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.messageID != 0 && sameShape(u.kind, msg.Kind) {
		err := u.telegram.Edit(ctx, u.chatID, u.messageID, msg)
		if err == nil {
			u.kind = msg.Kind
			return nil
		}
		u.logger.Warn("Failed to edit viewer message, sending a new one", "chat_id", u.chatID, "error", err)
	}

	if u.messageID != 0 {
		if err := u.telegram.DeleteMessage(ctx, u.chatID, u.messageID); err != nil {
			u.logger.Debug("Failed to delete previous viewer message", "chat_id", u.chatID, "error", err)
		}
		u.messageID = 0
	}

	id, err := u.telegram.Send(ctx, u.chatID, msg)
	if err != nil {
		return err
	}
	u.messageID = id
	u.kind = msg.Kind
	return nil
}

// sameShape reports whether a message can be edited from one kind into
// another. Telegram edits media into media and text into text only.
func sameShape(a, b telegram.MediaKind) bool {
	return (a == telegram.MediaText) == (b == telegram.MediaText)
}

func (u *chatUI) Notify(ctx context.Context, text string) {
	id, err := u.telegram.SendMessage(ctx, u.chatID, text)
	if err != nil {
		u.logger.Error("Failed to send notice", "chat_id", u.chatID, "error", err)
		return
	}
	if u.noticeTTL <= 0 {
		return
	}

	dctx := context.WithoutCancel(ctx)
	u.clock.AfterFunc(u.noticeTTL, func() {
		if err := u.telegram.DeleteMessage(dctx, u.chatID, id); err != nil {
			u.logger.Debug("Failed to delete notice", "chat_id", u.chatID, "error", err)
		}
	})
}

func (u *chatUI) SaveFile(ctx context.Context, url string, slide domain.Slide) error {
	return u.telegram.SendDocumentByURL(ctx, u.chatID, url, slide.Heading)
}

func (u *chatUI) CopyLink(ctx context.Context, link string) error {
	_, err := u.telegram.SendMessage(ctx, u.chatID, "🔗 "+link)
	return err
}

func (u *chatUI) Home(ctx context.Context) error {
	u.mu.Lock()
	id := u.messageID
	u.messageID = 0
	u.mu.Unlock()

	if id != 0 {
		if err := u.telegram.DeleteMessage(ctx, u.chatID, id); err != nil {
			u.logger.Debug("Failed to delete viewer message", "chat_id", u.chatID, "error", err)
		}
	}
	return u.home(ctx)
}

func slideMessage(snap viewer.Snapshot) telegram.Message {
	switch snap.State {
	case viewer.StateLoading:
		return telegram.Message{Text: "⏳ Loading story..."}
	case viewer.StateEmpty:
		kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			viewerButton("✖ Close", actClose, snap.StoryID),
		))
		return telegram.Message{Text: "This story has nothing to show.", Keyboard: &kb}
	}

	slide := snap.Slide
	kind := slide.Kind
	if kind == "" {
		kind = domain.DetectContentKind(slide.Content)
	}

	caption := slideCaption(snap)
	kb := viewerKeyboard(snap)
	msg := telegram.Message{Text: caption, Markdown: true, Keyboard: &kb}

	switch {
	case kind == domain.ContentImage:
		msg.Kind = telegram.MediaPhoto
		msg.URL = slide.Content
	case kind == domain.ContentVideo && !domain.IsHostedVideo(slide.Content):
		msg.Kind = telegram.MediaVideo
		msg.URL = slide.Content
	default:
		msg.Text = caption + "\n\n[▶ Open media](" + escapeLinkURL(slide.Content) + ")"
	}
	return msg
}

func slideCaption(snap viewer.Snapshot) string {
	var b strings.Builder
	if snap.Slide.Heading != "" {
		b.WriteString("*" + formatter.EscapeMarkdownV2(snap.Slide.Heading) + "*\n")
	}
	if snap.Slide.Description != "" {
		b.WriteString(formatter.EscapeMarkdownV2(snap.Slide.Description) + "\n")
	}
	b.WriteString("\n" + progressBar(snap.Index, snap.Total) + " ")
	b.WriteString(formatter.EscapeMarkdownV2(fmt.Sprintf("%d/%d", snap.Index+1, snap.Total)))
	return b.String()
}

func progressBar(index, total int) string {
	return strings.Repeat("▰", index+1) + strings.Repeat("▱", max(total-index-1, 0))
}

func escapeLinkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}

func viewerKeyboard(snap viewer.Snapshot) tgbotapi.InlineKeyboardMarkup {
	id := snap.StoryID
	var rows [][]tgbotapi.InlineKeyboardButton

	var nav []tgbotapi.InlineKeyboardButton
	if snap.HasPrevious() {
		nav = append(nav, viewerButton("◀ Prev", actPrev, id))
	}
	if snap.HasNext() {
		nav = append(nav, viewerButton("Next ▶", actNext, id))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	like := "🤍 " + formatter.FormatNumber(snap.LikeCount)
	if snap.Liked {
		like = "❤️ " + formatter.FormatNumber(snap.LikeCount)
	}
	bookmark := "📑 Bookmark"
	if snap.Bookmarked {
		bookmark = "🔖 Bookmarked"
	}
	download := "⬇️ Download"
	if snap.Downloaded {
		download = "✅ Downloaded"
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(viewerButton(like, actLike, id), viewerButton(bookmark, actBookmark, id)),
		tgbotapi.NewInlineKeyboardRow(viewerButton(download, actDownload, id), viewerButton("🔗 Share", actShare, id)),
		tgbotapi.NewInlineKeyboardRow(viewerButton("✖ Close", actClose, id)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func viewerButton(label, action, storyID string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(callbackData{Action: action, Story: storyID}))
}
