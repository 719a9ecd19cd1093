package commandimpl

import (
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/feed"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbacks(kb *tgbotapi.InlineKeyboardMarkup) []callbackData {
	var out []callbackData
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			d, _ := decodeCallback(*b.CallbackData)
			out = append(out, d)
		}
	}
	return out
}

func actions(kb *tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, d := range callbacks(kb) {
		out = append(out, d.Action)
	}
	return out
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	longest := encodeCallback(callbackData{Action: actCategory, Category: "Health and Fitness"})
	assert.LessOrEqual(t, len(longest), 64)

	withID := encodeCallback(callbackData{Action: actShare, Story: strings.Repeat("f", 24)})
	assert.LessOrEqual(t, len(withID), 64)

	d, err := decodeCallback(withID)
	require.NoError(t, err)
	assert.Equal(t, actShare, d.Action)
}

func TestSlideMessage(t *testing.T) {
	base := viewer.Snapshot{State: viewer.StateViewing, StoryID: "st", Total: 3, LikeCount: 1200}

	image := base
	image.Slide = domain.Slide{Heading: "Hi.", Content: "https://cdn.example.com/a.jpg", Kind: domain.ContentImage}
	msg := slideMessage(image)
	assert.Equal(t, telegram.MediaPhoto, msg.Kind)
	assert.True(t, msg.Markdown)
	assert.Contains(t, msg.Text, `*Hi\.*`)
	assert.Contains(t, msg.Text, "1/3")
	assert.Equal(t, []string{actNext, actLike, actBookmark, actDownload, actShare, actClose}, actions(msg.Keyboard))

	video := base
	video.Index = 2
	video.Slide = domain.Slide{Content: "https://cdn.example.com/a.mp4", Kind: domain.ContentVideo}
	msg = slideMessage(video)
	assert.Equal(t, telegram.MediaVideo, msg.Kind)
	assert.Equal(t, []string{actPrev, actLike, actBookmark, actDownload, actShare, actClose}, actions(msg.Keyboard))

	hosted := base
	hosted.Slide = domain.Slide{Content: "https://youtu.be/abc", Kind: domain.ContentVideo}
	msg = slideMessage(hosted)
	assert.Equal(t, telegram.MediaText, msg.Kind)
	assert.Contains(t, msg.Text, "(https://youtu.be/abc)")

	unknownKind := base
	unknownKind.Slide = domain.Slide{Content: "https://cdn.example.com/a.png"}
	assert.Equal(t, telegram.MediaPhoto, slideMessage(unknownKind).Kind)
}

func TestSlideMessageLabels(t *testing.T) {
	snap := viewer.Snapshot{State: viewer.StateViewing, StoryID: "st", Total: 3, Index: 1,
		Liked: true, LikeCount: 1200, Bookmarked: true, Downloaded: true,
		Slide: domain.Slide{Content: "https://cdn.example.com/a.jpg", Kind: domain.ContentImage}}

	msg := slideMessage(snap)
	var labels []string
	for _, row := range msg.Keyboard.InlineKeyboard {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	assert.Equal(t, []string{"◀ Prev", "Next ▶", "❤️ 1,200", "🔖 Bookmarked", "✅ Downloaded", "🔗 Share", "✖ Close"}, labels)
	for _, d := range callbacks(msg.Keyboard) {
		assert.Equal(t, "st", d.Story)
	}
}

func TestSlideMessageStates(t *testing.T) {
	loading := slideMessage(viewer.Snapshot{State: viewer.StateLoading})
	assert.Nil(t, loading.Keyboard)

	empty := slideMessage(viewer.Snapshot{State: viewer.StateEmpty, StoryID: "st"})
	assert.Equal(t, []string{actClose}, actions(empty.Keyboard))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▰▱▱", progressBar(0, 3))
	assert.Equal(t, "▰▰▰", progressBar(2, 3))
}

func stories(prefix string, n int) []domain.Story {
	out := make([]domain.Story, n)
	for i := range out {
		out[i] = domain.Story{ID: fmt.Sprintf("%s-%d", prefix, i), Slides: []domain.Slide{{Heading: "Heading", Description: "Description"}}}
	}
	return out
}

func TestRenderFeed(t *testing.T) {
	sel := feed.NewSelection().Toggle("Food").Toggle("Travel")
	sections := []feed.Section{
		{Category: "Food", Stories: stories("f", 6)},
		{Category: "Travel", Failed: true},
	}

	msg := renderFeed(sel, sections)
	assert.Contains(t, msg.Text, "Food")
	assert.Contains(t, msg.Text, "4. Heading... Description...")
	assert.NotContains(t, msg.Text, "5. ")
	assert.Contains(t, msg.Text, "Could not load this category.")

	var opens, mores, cats int
	for _, d := range callbacks(msg.Keyboard) {
		switch d.Action {
		case actOpen:
			opens++
		case actMore:
			mores++
			assert.Equal(t, "Food", d.Category)
		case actCategory:
			cats++
		}
	}
	assert.Equal(t, 4, opens)
	assert.Equal(t, 1, mores)
	assert.Equal(t, len(domain.Categories)+1, cats)

	sections[0].Expanded = true
	msg = renderFeed(sel, sections)
	assert.Contains(t, msg.Text, "6. Heading...")
}

func TestCategoryRowsMarkSelection(t *testing.T) {
	rows := categoryRows(feed.NewSelection())
	assert.Equal(t, "✅ All", rows[0][0].Text)
	assert.Equal(t, "Food", rows[0][1].Text)

	rows = categoryRows(feed.NewSelection().Toggle("Food"))
	assert.Equal(t, "All", rows[0][0].Text)
	assert.Equal(t, "✅ Food", rows[0][1].Text)
}

func TestRenderStoryListEmpty(t *testing.T) {
	msg := renderStoryList("Yours", "Nothing here.", nil)
	assert.Equal(t, "Nothing here.", msg.Text)
	assert.Nil(t, msg.Keyboard)
}
