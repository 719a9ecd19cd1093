package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/pkg/errors"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
)

type Opts struct {
	API         API
	Session     Session
	UI          UI
	Clock       clockwork.Clock
	AutoAdvance time.Duration
	Logger      logger.Logger

	// OnClose replaces the default return to the home screen.
	OnClose func(ctx context.Context)
	// OnLoginRequired runs after an unauthenticated like or bookmark.
	OnLoginRequired func(ctx context.Context)
}

type slideState struct {
	liked      bool
	likes      int
	downloaded bool
}

// Viewer is a slideshow over a single story. All methods are safe for
// concurrent use. Network calls run without holding the state lock and
// their results are dropped if the viewer moved on in the meantime.
type Viewer struct {
	api         API
	session     Session
	ui          UI
	clock       clockwork.Clock
	autoAdvance time.Duration
	logger      logger.Logger
	onClose     func(ctx context.Context)
	onLogin     func(ctx context.Context)

	mu         sync.Mutex
	state      State
	story      domain.Story
	slides     []slideState
	index      int
	bookmarked bool
	timer      clockwork.Timer
	generation uint64
	lastActive time.Time
	baseCtx    context.Context

	renderMu sync.Mutex
}

func New(opts Opts) *Viewer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Viewer{
		api:         opts.API,
		session:     opts.Session,
		ui:          opts.UI,
		clock:       clock,
		autoAdvance: opts.AutoAdvance,
		logger:      opts.Logger.WithComponent("Viewer"),
		onClose:     opts.OnClose,
		onLogin:     opts.OnLoginRequired,
		state:       StateLoading,
		lastActive:  clock.Now(),
		baseCtx:     context.Background(),
	}
}

// Open shows a story that is already at hand.
func (v *Viewer) Open(ctx context.Context, story domain.Story) error {
	v.mu.Lock()
	if v.state == StateClosed {
		v.mu.Unlock()
		return nil
	}
	v.baseCtx = context.WithoutCancel(ctx)
	v.populateLocked(story)
	v.mu.Unlock()

	v.checkBookmark(ctx, story.ID)
	v.render(ctx)
	return nil
}

// OpenByID resolves the story first, showing the loading state meanwhile.
func (v *Viewer) OpenByID(ctx context.Context, id string) error {
	v.mu.Lock()
	if v.state == StateClosed {
		v.mu.Unlock()
		return nil
	}
	v.baseCtx = context.WithoutCancel(ctx)
	v.stopTimerLocked()
	v.state = StateLoading
	v.story = domain.Story{ID: id}
	v.slides = nil
	v.index = 0
	v.bookmarked = false
	v.lastActive = v.clock.Now()
	v.mu.Unlock()

	v.render(ctx)

	story, err := v.api.StoryByID(ctx, id)

	v.mu.Lock()
	if v.state != StateLoading || v.story.ID != id {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		v.state = StateEmpty
		v.mu.Unlock()

		if errors.IsNotFound(err) {
			v.ui.Notify(ctx, MsgNotFound)
		} else {
			v.ui.Notify(ctx, MsgLoadFailed)
		}
		v.render(ctx)
		return fmt.Errorf("failed to load story %s: %w", id, err)
	}
	v.populateLocked(*story)
	v.mu.Unlock()

	v.checkBookmark(ctx, story.ID)
	v.render(ctx)
	return nil
}

func (v *Viewer) populateLocked(story domain.Story) {
	v.story = story
	v.slides = make([]slideState, len(story.Slides))
	for i, s := range story.Slides {
		v.slides[i].likes = s.LikeCount()
	}
	v.index = 0
	v.bookmarked = false
	v.lastActive = v.clock.Now()

	if len(story.Slides) == 0 {
		v.stopTimerLocked()
		v.state = StateEmpty
		return
	}
	v.state = StateViewing
	v.armLocked()
}

func (v *Viewer) checkBookmark(ctx context.Context, storyID string) {
	if v.session == nil || !v.session.LoggedIn() {
		return
	}

	bookmarks, err := v.api.Bookmarks(ctx, v.session.Token())
	if err != nil {
		v.logger.Warn("Failed to check bookmark status", "story_id", storyID, "error", err)
		return
	}

	found := false
	for _, s := range bookmarks {
		if s.ID == storyID {
			found = true
			break
		}
	}

	v.mu.Lock()
	if v.state == StateViewing && v.story.ID == storyID {
		v.bookmarked = found
	}
	v.mu.Unlock()
}

func (v *Viewer) Next(ctx context.Context) {
	v.step(ctx, 1)
}

func (v *Viewer) Previous(ctx context.Context) {
	v.step(ctx, -1)
}

func (v *Viewer) step(ctx context.Context, delta int) {
	v.mu.Lock()
	if v.state != StateViewing {
		v.mu.Unlock()
		return
	}
	v.lastActive = v.clock.Now()
	target := v.index + delta
	if target < 0 || target >= len(v.slides) {
		v.mu.Unlock()
		return
	}
	v.index = target
	v.armLocked()
	v.mu.Unlock()

	v.render(ctx)
}

// armLocked replaces any pending auto-advance with a fresh one.
func (v *Viewer) armLocked() {
	v.stopTimerLocked()
	if v.autoAdvance <= 0 {
		return
	}
	gen := v.generation
	v.timer = v.clock.AfterFunc(v.autoAdvance, func() {
		v.onTimer(gen)
	})
}

func (v *Viewer) stopTimerLocked() {
	v.generation++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *Viewer) onTimer(gen uint64) {
	v.mu.Lock()
	if gen != v.generation || v.state != StateViewing {
		v.mu.Unlock()
		return
	}
	v.timer = nil
	if v.index >= len(v.slides)-1 {
		v.mu.Unlock()
		return
	}
	v.index++
	v.armLocked()
	ctx := v.baseCtx
	v.mu.Unlock()

	v.render(ctx)
}

// current returns what an action needs to know about the visible slide.
func (v *Viewer) current() (storyID string, idx int, slide domain.Slide, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateViewing {
		return "", 0, domain.Slide{}, false
	}
	v.lastActive = v.clock.Now()
	return v.story.ID, v.index, v.story.Slides[v.index], true
}

func (v *Viewer) sameStoryLocked(storyID string) bool {
	return v.state == StateViewing && v.story.ID == storyID
}

// ToggleLike likes or unlikes the visible slide once the server confirms.
func (v *Viewer) ToggleLike(ctx context.Context) error {
	if !v.authorized() {
		v.requireLogin(ctx)
		return nil
	}

	storyID, idx, slide, ok := v.current()
	if !ok {
		return nil
	}

	count, err := v.api.LikeSlide(ctx, v.session.Token(), storyID, slide.ID)
	if err != nil {
		return v.fail(ctx, err, MsgLikeFailed, "failed to like slide %s", slide.ID)
	}

	v.mu.Lock()
	if v.sameStoryLocked(storyID) {
		st := &v.slides[idx]
		st.liked = !st.liked
		st.likes = count
	}
	v.mu.Unlock()

	v.render(ctx)
	return nil
}

// ToggleBookmark flips the bookmark once the server confirms. On failure
// the bookmark state is left as it was.
func (v *Viewer) ToggleBookmark(ctx context.Context) error {
	if !v.authorized() {
		v.requireLogin(ctx)
		return nil
	}

	storyID, _, _, ok := v.current()
	if !ok {
		return nil
	}

	if err := v.api.BookmarkStory(ctx, v.session.Token(), storyID); err != nil {
		return v.fail(ctx, err, MsgBookmarkFail, "failed to bookmark story %s", storyID)
	}

	v.mu.Lock()
	if v.sameStoryLocked(storyID) {
		v.bookmarked = !v.bookmarked
	}
	v.mu.Unlock()

	v.render(ctx)
	return nil
}

// Download resolves the media of the visible slide and hands it to the UI
// as a file.
func (v *Viewer) Download(ctx context.Context) error {
	storyID, idx, slide, ok := v.current()
	if !ok {
		return nil
	}

	url, err := v.api.DownloadLink(ctx, storyID, slide.ID)
	if err != nil {
		return v.fail(ctx, err, MsgDownloadFail, "failed to get download link for slide %s", slide.ID)
	}

	if err := v.ui.SaveFile(ctx, url, slide); err != nil {
		v.ui.Notify(ctx, MsgDownloadFail)
		return fmt.Errorf("failed to save slide %s: %w", slide.ID, err)
	}

	v.mu.Lock()
	if v.sameStoryLocked(storyID) {
		v.slides[idx].downloaded = true
	}
	v.mu.Unlock()

	v.render(ctx)
	return nil
}

func (v *Viewer) Share(ctx context.Context) error {
	storyID, _, _, ok := v.current()
	if !ok {
		return nil
	}

	link, err := v.api.ShareLink(ctx, storyID)
	if err != nil {
		v.ui.Notify(ctx, MsgShareFailed)
		return fmt.Errorf("failed to get share link for story %s: %w", storyID, err)
	}

	if err := v.ui.CopyLink(ctx, link); err != nil {
		v.ui.Notify(ctx, MsgShareFailed)
		return fmt.Errorf("failed to share story %s: %w", storyID, err)
	}

	v.ui.Notify(ctx, MsgShared)
	return nil
}

// Close stops the viewer and leaves the slideshow. Closing twice is a no-op.
func (v *Viewer) Close(ctx context.Context) {
	if !v.shutdown() {
		return
	}

	if v.onClose != nil {
		v.onClose(ctx)
		return
	}
	if err := v.ui.Home(ctx); err != nil {
		v.logger.Warn("Failed to return to home screen", "error", err)
	}
}

// Dismiss stops the viewer without navigating anywhere. It is used when
// another viewer takes over the chat.
func (v *Viewer) Dismiss() {
	v.shutdown()
}

func (v *Viewer) shutdown() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false
	}
	v.stopTimerLocked()
	v.state = StateClosed
	return true
}

func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		State:      v.state,
		StoryID:    v.story.ID,
		Title:      v.story.Title,
		Total:      len(v.slides),
		Bookmarked: v.bookmarked,
	}
	if v.state == StateViewing {
		st := v.slides[v.index]
		snap.Index = v.index
		snap.Slide = v.story.Slides[v.index]
		snap.Liked = st.liked
		snap.LikeCount = st.likes
		snap.Downloaded = st.downloaded
	}
	return snap
}

func (v *Viewer) StoryID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.story.ID
}

func (v *Viewer) LastActive() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

func (v *Viewer) authorized() bool {
	return v.session != nil && v.session.LoggedIn()
}

func (v *Viewer) requireLogin(ctx context.Context) {
	v.Close(ctx)
	v.ui.Notify(ctx, MsgLoginRequired)
	if v.onLogin != nil {
		v.onLogin(ctx)
	}
}

// fail reports an action error. A rejected token drops the session and
// sends the user to log in again.
func (v *Viewer) fail(ctx context.Context, err error, notice, format string, args ...any) error {
	if errors.IsUnauthorized(err) {
		if clearErr := v.session.Clear(ctx); clearErr != nil {
			v.logger.Warn("Failed to clear rejected session", "error", clearErr)
		}
		v.requireLogin(ctx)
		return nil
	}

	v.ui.Notify(ctx, notice)
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// render draws the latest state. Renders are serialised so a slow one can
// never overwrite a newer frame.
func (v *Viewer) render(ctx context.Context) {
	v.renderMu.Lock()
	defer v.renderMu.Unlock()

	snap := v.Snapshot()
	if snap.State == StateClosed {
		return
	}
	if err := v.ui.Render(ctx, snap); err != nil {
		v.logger.Warn("Failed to render viewer", "story_id", snap.StoryID, "state", snap.State.String(), "error", err)
	}
}
