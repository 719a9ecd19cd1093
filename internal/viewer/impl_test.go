package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	mock_storyapi "github.com/orgball2608/stories-telegram-bot/internal/storyapi/mocks"
	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeUI struct {
	mu      sync.Mutex
	renders []Snapshot
	notices []string
	saved   []string
	copied  []string
	homes   int
	saveErr error
}

func (f *fakeUI) Render(_ context.Context, snap Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, snap)
	return nil
}

func (f *fakeUI) Notify(_ context.Context, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, text)
}

func (f *fakeUI) SaveFile(_ context.Context, url string, _ domain.Slide) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, url)
	return nil
}

func (f *fakeUI) CopyLink(_ context.Context, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copied = append(f.copied, link)
	return nil
}

func (f *fakeUI) Home(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.homes++
	return nil
}

func (f *fakeUI) Notices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notices...)
}

func (f *fakeUI) RenderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders)
}

type fakeSession struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) LoggedIn() bool {
	return s.Token() != ""
}

func (s *fakeSession) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

type harness struct {
	api      *mock_storyapi.MockClient
	ui       *fakeUI
	session  *fakeSession
	clock    *clockwork.FakeClock
	logins   int
	viewer   *Viewer
	loginsMu sync.Mutex
}

func newHarness(t *testing.T, token string, autoAdvance time.Duration) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		api:     mock_storyapi.NewMockClient(ctrl),
		ui:      &fakeUI{},
		session: &fakeSession{token: token},
		clock:   clockwork.NewFakeClock(),
	}
	h.viewer = New(Opts{
		API:         h.api,
		Session:     h.session,
		UI:          h.ui,
		Clock:       h.clock,
		AutoAdvance: autoAdvance,
		Logger:      logger.NewNop(),
		OnLoginRequired: func(context.Context) {
			h.loginsMu.Lock()
			h.logins++
			h.loginsMu.Unlock()
		},
	})
	return h
}

func (h *harness) Logins() int {
	h.loginsMu.Lock()
	defer h.loginsMu.Unlock()
	return h.logins
}

func story(n int) domain.Story {
	s := domain.Story{ID: "story-1", Title: "Trip"}
	for i := 0; i < n; i++ {
		s.Slides = append(s.Slides, domain.Slide{
			ID:      fmt.Sprintf("s%d", i+1),
			Heading: fmt.Sprintf("Slide %d", i+1),
			Content: fmt.Sprintf("https://cdn.example.com/%d.jpg", i+1),
			Kind:    domain.ContentImage,
			Likes:   []string{"u1", "u2"},
		})
	}
	return s
}

func TestNextAndPreviousClamp(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 0)
	require.NoError(t, h.viewer.Open(ctx, story(3)))

	h.viewer.Previous(ctx)
	assert.Equal(t, 0, h.viewer.Snapshot().Index)

	h.viewer.Next(ctx)
	h.viewer.Next(ctx)
	assert.Equal(t, 2, h.viewer.Snapshot().Index)

	h.viewer.Next(ctx)
	snap := h.viewer.Snapshot()
	assert.Equal(t, 2, snap.Index)
	assert.False(t, snap.HasNext())
	assert.True(t, snap.HasPrevious())
}

func TestIndexStaysInRange(t *testing.T) {
	ctx := context.Background()
	for n := domain.MinSlides; n <= domain.MaxSlides; n++ {
		t.Run(fmt.Sprintf("%d slides", n), func(t *testing.T) {
			h := newHarness(t, "", 0)
			require.NoError(t, h.viewer.Open(ctx, story(n)))

			moves := []int{1, 1, 1, 1, 1, 1, 1, -1, -1, -1, -1, -1, -1, -1, -1, 1, -1, 1, 1}
			for _, m := range moves {
				if m > 0 {
					h.viewer.Next(ctx)
				} else {
					h.viewer.Previous(ctx)
				}
				idx := h.viewer.Snapshot().Index
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, n)
			}
		})
	}
}

func TestAutoAdvanceStopsAtLastSlide(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 10*time.Second)
	require.NoError(t, h.viewer.Open(ctx, story(3)))

	h.clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return h.viewer.Snapshot().Index == 1 }, time.Second, 5*time.Millisecond)

	h.clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return h.viewer.Snapshot().Index == 2 }, time.Second, 5*time.Millisecond)

	renders := h.ui.RenderCount()
	h.clock.Advance(time.Minute)
	require.Never(t, func() bool { return h.ui.RenderCount() != renders }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 2, h.viewer.Snapshot().Index)
}

func TestIndexChangeReplacesPendingTimer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 10*time.Second)
	require.NoError(t, h.viewer.Open(ctx, story(4)))

	h.clock.Advance(6 * time.Second)
	h.viewer.Next(ctx)

	// The timer armed on open would have fired here.
	h.clock.Advance(6 * time.Second)
	require.Never(t, func() bool { return h.viewer.Snapshot().Index != 1 }, 100*time.Millisecond, 5*time.Millisecond)

	h.clock.Advance(4 * time.Second)
	require.Eventually(t, func() bool { return h.viewer.Snapshot().Index == 2 }, time.Second, 5*time.Millisecond)
}

func TestCloseStopsTimerAndGoesHome(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 10*time.Second)
	require.NoError(t, h.viewer.Open(ctx, story(3)))

	h.viewer.Close(ctx)
	h.viewer.Close(ctx)
	renders := h.ui.RenderCount()

	h.clock.Advance(time.Minute)
	require.Never(t, func() bool { return h.ui.RenderCount() != renders }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, StateClosed, h.viewer.Snapshot().State)
	assert.Equal(t, 1, h.ui.homes)
}

func TestCloseUsesCallback(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 0)
	closed := 0
	h.viewer.onClose = func(context.Context) { closed++ }
	require.NoError(t, h.viewer.Open(ctx, story(3)))

	h.viewer.Close(ctx)
	assert.Equal(t, 1, closed)
	assert.Zero(t, h.ui.homes)
}

func TestOpenByID(t *testing.T) {
	ctx := context.Background()

	t.Run("loads story and bookmark state", func(t *testing.T) {
		h := newHarness(t, "tok", 0)
		s := story(3)
		h.api.EXPECT().StoryByID(gomock.Any(), "story-1").Return(&s, nil)
		h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return([]domain.Story{{ID: "other"}, {ID: "story-1"}}, nil)

		require.NoError(t, h.viewer.OpenByID(ctx, "story-1"))
		snap := h.viewer.Snapshot()
		assert.Equal(t, StateViewing, snap.State)
		assert.True(t, snap.Bookmarked)
		assert.Equal(t, 2, snap.LikeCount)
		assert.False(t, snap.Liked)
		assert.Equal(t, StateLoading, h.ui.renders[0].State)
	})

	t.Run("bookmark check failure is not fatal", func(t *testing.T) {
		h := newHarness(t, "tok", 0)
		s := story(3)
		h.api.EXPECT().StoryByID(gomock.Any(), "story-1").Return(&s, nil)
		h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return(nil, errors.New("boom"))

		require.NoError(t, h.viewer.OpenByID(ctx, "story-1"))
		assert.Equal(t, StateViewing, h.viewer.Snapshot().State)
		assert.False(t, h.viewer.Snapshot().Bookmarked)
	})

	t.Run("not found", func(t *testing.T) {
		h := newHarness(t, "", 0)
		h.api.EXPECT().StoryByID(gomock.Any(), "missing").Return(nil, apperrors.FromStatus(404, ""))

		assert.Error(t, h.viewer.OpenByID(ctx, "missing"))
		assert.Equal(t, StateEmpty, h.viewer.Snapshot().State)
		assert.Equal(t, []string{MsgNotFound}, h.ui.Notices())
	})

	t.Run("other failure", func(t *testing.T) {
		h := newHarness(t, "", 0)
		h.api.EXPECT().StoryByID(gomock.Any(), "story-1").Return(nil, errors.New("connection refused"))

		assert.Error(t, h.viewer.OpenByID(ctx, "story-1"))
		assert.Equal(t, StateEmpty, h.viewer.Snapshot().State)
		assert.Equal(t, []string{MsgLoadFailed}, h.ui.Notices())
	})

	t.Run("story without slides", func(t *testing.T) {
		h := newHarness(t, "", 0)
		h.api.EXPECT().StoryByID(gomock.Any(), "story-1").Return(&domain.Story{ID: "story-1"}, nil)

		require.NoError(t, h.viewer.OpenByID(ctx, "story-1"))
		assert.Equal(t, StateEmpty, h.viewer.Snapshot().State)
	})
}

func TestToggleLikeAuthenticated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "tok", 0)
	h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return(nil, nil)
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.viewer.Next(ctx)

	gomock.InOrder(
		h.api.EXPECT().LikeSlide(gomock.Any(), "tok", "story-1", "s2").Return(3, nil),
		h.api.EXPECT().LikeSlide(gomock.Any(), "tok", "story-1", "s2").Return(2, nil),
	)

	require.NoError(t, h.viewer.ToggleLike(ctx))
	snap := h.viewer.Snapshot()
	assert.True(t, snap.Liked)
	assert.Equal(t, 3, snap.LikeCount)

	require.NoError(t, h.viewer.ToggleLike(ctx))
	snap = h.viewer.Snapshot()
	assert.False(t, snap.Liked)
	assert.Equal(t, 2, snap.LikeCount)
}

func TestToggleLikeFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "tok", 0)
	h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return(nil, nil)
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.api.EXPECT().LikeSlide(gomock.Any(), "tok", "story-1", "s1").Return(0, errors.New("boom"))

	assert.Error(t, h.viewer.ToggleLike(ctx))
	snap := h.viewer.Snapshot()
	assert.False(t, snap.Liked)
	assert.Equal(t, 2, snap.LikeCount)
	assert.Equal(t, []string{MsgLikeFailed}, h.ui.Notices())
}

func TestUnauthenticatedActionsPromptLogin(t *testing.T) {
	ctx := context.Background()
	actions := map[string]func(v *Viewer) error{
		"like":     func(v *Viewer) error { return v.ToggleLike(ctx) },
		"bookmark": func(v *Viewer) error { return v.ToggleBookmark(ctx) },
	}

	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			// No API expectations: any call fails the test.
			h := newHarness(t, "", 0)
			require.NoError(t, h.viewer.Open(ctx, story(3)))

			require.NoError(t, action(h.viewer))
			assert.Equal(t, StateClosed, h.viewer.Snapshot().State)
			assert.Equal(t, []string{MsgLoginRequired}, h.ui.Notices())
			assert.Equal(t, 1, h.Logins())
		})
	}
}

func TestRejectedTokenClearsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "stale", 0)
	h.api.EXPECT().Bookmarks(gomock.Any(), "stale").Return(nil, nil)
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.api.EXPECT().BookmarkStory(gomock.Any(), "stale", "story-1").Return(apperrors.FromStatus(401, "jwt expired"))

	require.NoError(t, h.viewer.ToggleBookmark(ctx))
	assert.Equal(t, 1, h.session.cleared)
	assert.False(t, h.session.LoggedIn())
	assert.Equal(t, StateClosed, h.viewer.Snapshot().State)
	assert.Equal(t, []string{MsgLoginRequired}, h.ui.Notices())
	assert.Equal(t, 1, h.Logins())
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "tok", 0)
	h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return(nil, nil)
	require.NoError(t, h.viewer.Open(ctx, story(3)))

	h.api.EXPECT().BookmarkStory(gomock.Any(), "tok", "story-1").Return(nil)
	require.NoError(t, h.viewer.ToggleBookmark(ctx))
	assert.True(t, h.viewer.Snapshot().Bookmarked)

	h.api.EXPECT().BookmarkStory(gomock.Any(), "tok", "story-1").Return(errors.New("boom"))
	assert.Error(t, h.viewer.ToggleBookmark(ctx))
	assert.True(t, h.viewer.Snapshot().Bookmarked)
	assert.Equal(t, []string{MsgBookmarkFail}, h.ui.Notices())
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 0)
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.api.EXPECT().DownloadLink(gomock.Any(), "story-1", "s1").Return("https://cdn.example.com/raw/1.jpg", nil)

	require.NoError(t, h.viewer.Download(ctx))
	assert.Equal(t, []string{"https://cdn.example.com/raw/1.jpg"}, h.ui.saved)
	assert.True(t, h.viewer.Snapshot().Downloaded)

	h.viewer.Next(ctx)
	assert.False(t, h.viewer.Snapshot().Downloaded)
}

func TestDownloadSaveFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", 0)
	h.ui.saveErr = errors.New("too large")
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.api.EXPECT().DownloadLink(gomock.Any(), "story-1", "s1").Return("https://cdn.example.com/raw/1.jpg", nil)

	assert.Error(t, h.viewer.Download(ctx))
	assert.False(t, h.viewer.Snapshot().Downloaded)
	assert.Equal(t, []string{MsgDownloadFail}, h.ui.Notices())
}

func TestShare(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		h := newHarness(t, "", 0)
		require.NoError(t, h.viewer.Open(ctx, story(3)))
		h.api.EXPECT().ShareLink(gomock.Any(), "story-1").Return("https://stories.example.com/s/story-1", nil)

		require.NoError(t, h.viewer.Share(ctx))
		assert.Equal(t, []string{"https://stories.example.com/s/story-1"}, h.ui.copied)
		assert.Equal(t, []string{MsgShared}, h.ui.Notices())
	})

	t.Run("failure", func(t *testing.T) {
		h := newHarness(t, "", 0)
		require.NoError(t, h.viewer.Open(ctx, story(3)))
		h.api.EXPECT().ShareLink(gomock.Any(), "story-1").Return("", errors.New("boom"))

		assert.Error(t, h.viewer.Share(ctx))
		assert.Empty(t, h.ui.copied)
		assert.Equal(t, []string{MsgShareFailed}, h.ui.Notices())
	})
}

func TestActionsIgnoredWhenClosed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "tok", 0)
	h.api.EXPECT().Bookmarks(gomock.Any(), "tok").Return(nil, nil)
	require.NoError(t, h.viewer.Open(ctx, story(3)))
	h.viewer.Dismiss()

	h.viewer.Next(ctx)
	assert.NoError(t, h.viewer.ToggleLike(ctx))
	assert.NoError(t, h.viewer.Download(ctx))
	assert.NoError(t, h.viewer.Share(ctx))
	assert.Zero(t, h.ui.homes)
}
