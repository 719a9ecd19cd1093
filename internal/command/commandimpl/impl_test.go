package commandimpl

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/feed"
	"github.com/orgball2608/stories-telegram-bot/internal/ratelimit"
	sessionrepo "github.com/orgball2608/stories-telegram-bot/internal/repositories/session"
	mock_session "github.com/orgball2608/stories-telegram-bot/internal/repositories/session/mocks"
	"github.com/orgball2608/stories-telegram-bot/internal/session"
	mock_storyapi "github.com/orgball2608/stories-telegram-bot/internal/storyapi/mocks"
	"github.com/orgball2608/stories-telegram-bot/internal/telegram"
	mock_telegram "github.com/orgball2608/stories-telegram-bot/internal/telegram/mocks"
	"github.com/orgball2608/stories-telegram-bot/internal/viewer"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testCommand struct {
	*CommandImpl
	tg    *mock_telegram.MockClient
	api   *mock_storyapi.MockClient
	repo  *mock_session.MockRepository
	clock *clockwork.FakeClock
}

func newTestCommand(t *testing.T) *testCommand {
	ctrl := gomock.NewController(t)
	tc := &testCommand{
		tg:    mock_telegram.NewMockClient(ctrl),
		api:   mock_storyapi.NewMockClient(ctrl),
		repo:  mock_session.NewMockRepository(ctrl),
		clock: clockwork.NewFakeClock(),
	}
	log := logger.NewNop()

	cfg := &config.Config{}
	cfg.Viewer.NoticeTTL = 5 * time.Second

	tc.CommandImpl = New(Opts{
		Telegram: tc.tg,
		API:      tc.api,
		Sessions: session.New(session.Opts{Repo: tc.repo, API: tc.api, Clock: tc.clock, Logger: log}),
		Feed:     feed.New(feed.Opts{API: tc.api, Logger: log}),
		Viewers:  viewer.NewRegistry(viewer.RegistryOpts{Clock: tc.clock, Logger: log}),
		Limiter:  ratelimit.NewInMemoryLimiter(100, time.Second, 100, tc.clock),
		Clock:    tc.clock,
		Logger:   log,
		Config:   cfg,
	})
	return tc
}

func commandMsg(chatID int64, text string) *tgbotapi.Message {
	cmd, _, _ := cutCommand(text)
	return &tgbotapi.Message{
		MessageID: 99,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func cutCommand(text string) (string, string, bool) {
	for i, r := range text {
		if r == ' ' || r == '\n' {
			return text[:i], text[i+1:], true
		}
	}
	return text, "", false
}

func TestUnknownCommand(t *testing.T) {
	tc := newTestCommand(t)
	tc.tg.EXPECT().SendMessage(gomock.Any(), int64(1), msgUnknownCommand).Return(1, nil)

	require.NoError(t, tc.processCommand(context.Background(), commandMsg(1, "/dance")))
}

func TestLoginStoresSessionAndDeletesCredentials(t *testing.T) {
	tc := newTestCommand(t)
	ctx := context.Background()

	tc.tg.EXPECT().DeleteMessage(gomock.Any(), int64(1), 99).Return(nil)
	tc.api.EXPECT().Login(gomock.Any(), "alice", "secret").Return("tok", nil)
	tc.repo.EXPECT().Save(gomock.Any(), domain.Session{ChatID: 1, Username: "alice", Token: "tok"}).Return(nil)
	tc.tg.EXPECT().SendMessage(gomock.Any(), int64(1), "✅ Logged in as alice.").Return(2, nil)

	require.NoError(t, tc.processCommand(ctx, commandMsg(1, "/login alice secret")))
}

func TestLoginUsage(t *testing.T) {
	tc := newTestCommand(t)
	tc.tg.EXPECT().SendMessage(gomock.Any(), int64(1), "Usage: /login <username> <password>").Return(1, nil)

	require.NoError(t, tc.processCommand(context.Background(), commandMsg(1, "/login alice")))
}

func TestWhoAmINotLoggedIn(t *testing.T) {
	tc := newTestCommand(t)
	tc.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, sessionrepo.ErrNotFound)
	tc.tg.EXPECT().SendMessage(gomock.Any(), int64(1), msgNotLoggedIn).Return(1, nil)

	require.NoError(t, tc.processCommand(context.Background(), commandMsg(1, "/whoami")))
}

func TestAddStoryValidatesBeforePosting(t *testing.T) {
	tc := newTestCommand(t)
	tc.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(&domain.Session{ChatID: 1, Token: "tok"}, nil)
	tc.tg.EXPECT().SendMessage(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, text string) (int, error) {
			assert.Contains(t, text, "between 3 and 6 slides")
			return 1, nil
		})

	form := "/addstory Trip\nTravel | https://cdn.example.com/a.jpg | Day one | Early start"
	require.NoError(t, tc.processCommand(context.Background(), commandMsg(1, form)))
}

func TestAddStoryPosts(t *testing.T) {
	tc := newTestCommand(t)
	tc.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(&domain.Session{ChatID: 1, Token: "tok"}, nil)
	tc.api.EXPECT().AddStory(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, s domain.NewStory) (*domain.Story, error) {
			assert.Equal(t, "Trip", s.Title)
			require.Len(t, s.Slides, 3)
			assert.Equal(t, domain.ContentVideo, s.Slides[1].Kind)
			return &domain.Story{ID: "new-id"}, nil
		})
	tc.tg.EXPECT().Send(gomock.Any(), int64(1), gomock.Any()).Return(2, nil)

	form := "/addstory Trip\n" +
		"Travel | https://cdn.example.com/a.jpg | Day one | Early start\n" +
		"Travel | https://youtu.be/abc | Day two | Hiking\n" +
		"Travel | https://cdn.example.com/c.png | Day three | Home"
	require.NoError(t, tc.processCommand(context.Background(), commandMsg(1, form)))
}

func TestViewerCallbackWithoutViewer(t *testing.T) {
	tc := newTestCommand(t)
	tc.tg.EXPECT().AnswerCallback(gomock.Any(), "cb", msgViewerGone).Return(nil)

	tc.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    encodeCallback(callbackData{Action: actNext, Story: "story-1"}),
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 1}},
	})
}

func TestOpenStoryAndNavigate(t *testing.T) {
	tc := newTestCommand(t)
	ctx := context.Background()
	story := &domain.Story{ID: "story-1", Slides: []domain.Slide{
		{ID: "s1", Heading: "One", Content: "https://cdn.example.com/1.jpg", Kind: domain.ContentImage},
		{ID: "s2", Heading: "Two", Content: "https://cdn.example.com/2.jpg", Kind: domain.ContentImage},
		{ID: "s3", Heading: "Three", Content: "https://cdn.example.com/3.jpg", Kind: domain.ContentImage},
	}}

	tc.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, sessionrepo.ErrNotFound)
	tc.api.EXPECT().StoryByID(gomock.Any(), "story-1").Return(story, nil)

	gomock.InOrder(
		tc.tg.EXPECT().Send(gomock.Any(), int64(1), telegram.Message{Text: "⏳ Loading story..."}).Return(10, nil),
		tc.tg.EXPECT().DeleteMessage(gomock.Any(), int64(1), 10).Return(nil),
		tc.tg.EXPECT().Send(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, msg telegram.Message) (int, error) {
				assert.Equal(t, telegram.MediaPhoto, msg.Kind)
				assert.Equal(t, "https://cdn.example.com/1.jpg", msg.URL)
				return 11, nil
			}),
		tc.tg.EXPECT().AnswerCallback(gomock.Any(), "cb", "").Return(nil),
		tc.tg.EXPECT().Edit(gomock.Any(), int64(1), 11, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, msg telegram.Message) error {
				assert.Equal(t, "https://cdn.example.com/2.jpg", msg.URL)
				return nil
			}),
	)

	require.NoError(t, tc.openStory(ctx, 1, "story-1", nil))

	tc.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    encodeCallback(callbackData{Action: actNext, Story: "story-1"}),
		Message: &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: 1}},
	})

	v, ok := tc.Viewers.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, v.Snapshot().Index)
}

func TestOpenFromListUsesShownStory(t *testing.T) {
	tc := newTestCommand(t)
	ctx := context.Background()
	tc.allowRendering()

	tc.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(&domain.Session{ChatID: 1, Token: "tok"}, nil)
	tc.api.EXPECT().MyStories(gomock.Any(), "tok").Return([]domain.Story{*threeSlideStory()}, nil)
	require.NoError(t, tc.processCommand(ctx, commandMsg(1, "/mystories")))

	tc.api.EXPECT().StoryByID(gomock.Any(), gomock.Any()).Times(0)
	tc.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return([]domain.Story{{ID: "story-1"}}, nil)
	tc.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    encodeCallback(callbackData{Action: actOpen, Story: "story-1"}),
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 1}},
	})

	v, ok := tc.Viewers.Get(1)
	require.True(t, ok)
	snap := v.Snapshot()
	assert.Equal(t, viewer.StateViewing, snap.State)
	assert.Equal(t, 3, snap.Total)
	assert.True(t, snap.Bookmarked)

	tc.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    encodeCallback(callbackData{Action: actClose, Story: "story-1"}),
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 1}},
	})

	_, ok = tc.Viewers.Get(1)
	assert.False(t, ok)
	assert.Equal(t, viewer.StateClosed, v.Snapshot().State)
}
