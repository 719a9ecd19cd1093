package viewer

import (
	"context"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
)

// API is the part of the stories backend the viewer talks to.
type API interface {
	StoryByID(ctx context.Context, id string) (*domain.Story, error)
	Bookmarks(ctx context.Context, token string) ([]domain.Story, error)
	LikeSlide(ctx context.Context, token, storyID, slideID string) (int, error)
	BookmarkStory(ctx context.Context, token, storyID string) error
	DownloadLink(ctx context.Context, storyID, slideID string) (string, error)
	ShareLink(ctx context.Context, storyID string) (string, error)
}

// Session is the login state the viewer gates mutating actions on.
type Session interface {
	Token() string
	LoggedIn() bool
	Clear(ctx context.Context) error
}

// UI is where the viewer draws itself and its side effects.
type UI interface {
	Render(ctx context.Context, snap Snapshot) error
	// Notify shows a short-lived message.
	Notify(ctx context.Context, text string)
	SaveFile(ctx context.Context, url string, slide domain.Slide) error
	CopyLink(ctx context.Context, link string) error
	// Home returns the chat to the default screen.
	Home(ctx context.Context) error
}

type State int

const (
	StateLoading State = iota
	StateViewing
	StateEmpty
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateViewing:
		return "viewing"
	case StateEmpty:
		return "empty"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the viewer for rendering.
type Snapshot struct {
	State      State
	StoryID    string
	Title      string
	Index      int
	Total      int
	Slide      domain.Slide
	Liked      bool
	LikeCount  int
	Bookmarked bool
	Downloaded bool
}

func (s Snapshot) HasPrevious() bool {
	return s.State == StateViewing && s.Index > 0
}

func (s Snapshot) HasNext() bool {
	return s.State == StateViewing && s.Index < s.Total-1
}

const (
	MsgLoginRequired = "Please log in to like or bookmark stories."
	MsgNotFound      = "Story not found"
	MsgLoadFailed    = "Failed to load story."
	MsgLikeFailed    = "Failed to like the slide."
	MsgBookmarkFail  = "Failed to bookmark the story."
	MsgDownloadFail  = "Failed to download the slide."
	MsgShareFailed   = "Failed to share the story."
	MsgShared        = "Share link sent to the chat."
)
