package commandimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
)

const slideFormat = "<category> | <image or video url> | <heading> | <description>"

// parseStoryForm reads the text after /addstory or /editstory. Lines with
// a "|" are slides; a single plain line before the first slide is the title.
func parseStoryForm(text string) (title string, slides []domain.Slide, err error) {
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.Contains(line, "|") {
			if len(slides) > 0 || title != "" {
				return "", nil, apperrors.WrapWithCode(apperrors.ErrInvalidInput, "form",
					fmt.Sprintf("Line %d is not a slide. Expected: %s", i+1, slideFormat))
			}
			title = line
			continue
		}

		fields := strings.SplitN(line, "|", 4)
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		for len(fields) < 4 {
			fields = append(fields, "")
		}

		slides = append(slides, domain.Slide{
			Category:    fields[0],
			Content:     fields[1],
			Kind:        domain.DetectContentKind(fields[1]),
			Heading:     fields[2],
			Description: fields[3],
		})
	}
	return title, slides, nil
}

func (c *CommandImpl) handleAddStory(ctx context.Context, chatID int64, args string) error {
	s, ok := c.loggedIn(ctx, chatID)
	if !ok {
		return nil
	}

	title, slides, err := parseStoryForm(args)
	if err == nil {
		err = domain.ValidateNewStory(domain.NewStory{Title: title, Slides: slides})
	}
	if err != nil {
		return c.formRejected(ctx, chatID, err)
	}

	story, err := c.API.AddStory(ctx, s.Token(), domain.NewStory{Title: title, Slides: slides})
	if err != nil {
		return c.storyWriteFailed(ctx, chatID, s, err)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(openButton(1, story.ID)))
	_, err = c.Telegram.Send(ctx, chatID, telegram.Message{
		Text:     fmt.Sprintf("✅ Story posted with %d slides. Id: %s", len(slides), story.ID),
		Keyboard: &kb,
	})
	return err
}

func (c *CommandImpl) handleEditStory(ctx context.Context, chatID int64, args string) error {
	s, ok := c.loggedIn(ctx, chatID)
	if !ok {
		return nil
	}

	id, form, _ := strings.Cut(args, "\n")
	id = strings.TrimSpace(id)
	if id == "" {
		c.reply(ctx, chatID, "Usage: /editstory <id> followed by one line per slide: "+slideFormat)
		return nil
	}

	title, slides, err := parseStoryForm(form)
	if err == nil && title != "" {
		err = apperrors.WrapWithCode(apperrors.ErrInvalidInput, "form", "Editing only replaces slides. Remove the title line.")
	}
	if err == nil {
		err = domain.ValidateSlides(slides)
	}
	if err != nil {
		return c.formRejected(ctx, chatID, err)
	}

	if err := c.API.EditStory(ctx, s.Token(), id, slides); err != nil {
		return c.storyWriteFailed(ctx, chatID, s, err)
	}

	_, err = c.Telegram.SendMessage(ctx, chatID, fmt.Sprintf("✅ Story %s updated.", id))
	return err
}

func formError(err error) string {
	return "❌ " + apperrors.GetMessage(err) + "\nSlides go one per line: " + slideFormat
}

// formRejected explains an invalid form to the user. Anything else that
// failed while checking the form is reported as an error.
func (c *CommandImpl) formRejected(ctx context.Context, chatID int64, err error) error {
	if !apperrors.IsInvalidInput(err) {
		c.reply(ctx, chatID, msgGenericError)
		return err
	}
	c.reply(ctx, chatID, formError(err))
	return nil
}

func (c *CommandImpl) storyWriteFailed(ctx context.Context, chatID int64, s *session.ChatSession, err error) error {
	if c.rejected(ctx, s, err) {
		return nil
	}

	switch {
	case apperrors.IsNotFound(err):
		c.reply(ctx, chatID, "Story not found.")
		return nil
	case apperrors.IsBadRequest(err):
		c.reply(ctx, chatID, "❌ "+apperrors.GetMessage(err))
		return nil
	case apperrors.Is(err, apperrors.ErrForbidden):
		c.reply(ctx, chatID, "You can only edit your own stories.")
		return nil
	default:
		c.Logger.Error("Story write failed", "chat_id", chatID, "status", apperrors.GetCode(err), "error", err)
		c.reply(ctx, chatID, msgGenericError)
		return err
	}
}
