package storyapi

import (
	"context"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=storyapi.go -destination=mocks/mock.go

// Client is the stories backend as seen from the bot. Methods taking a token
// send it as a bearer credential; an empty token is sent as-is and left for
// the server to reject.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, token string) (string, error)

	StoriesByCategory(ctx context.Context, category string) ([]domain.Story, error)
	MyStories(ctx context.Context, token string) ([]domain.Story, error)
	Bookmarks(ctx context.Context, token string) ([]domain.Story, error)
	StoryByID(ctx context.Context, id string) (*domain.Story, error)

	AddStory(ctx context.Context, token string, story domain.NewStory) (*domain.Story, error)
	EditStory(ctx context.Context, token, id string, slides []domain.Slide) error

	LikeSlide(ctx context.Context, token, storyID, slideID string) (int, error)
	BookmarkStory(ctx context.Context, token, storyID string) error
	DownloadLink(ctx context.Context, storyID, slideID string) (string, error)
	ShareLink(ctx context.Context, storyID string) (string, error)
}
