package storyapiimpl

import (
	"context"
	"net/http"
	"net/url"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
)

func (a *StoryAPIImpl) StoriesByCategory(ctx context.Context, category string) ([]domain.Story, error) {
	var stories []domain.Story
	err := a.do(ctx, http.MethodGet, "/api/stories/category/"+url.PathEscape(category), "", nil, &stories)
	return stories, err
}

func (a *StoryAPIImpl) MyStories(ctx context.Context, token string) ([]domain.Story, error) {
	var stories []domain.Story
	err := a.do(ctx, http.MethodGet, "/api/stories/mystories", token, nil, &stories)
	return stories, err
}

func (a *StoryAPIImpl) Bookmarks(ctx context.Context, token string) ([]domain.Story, error) {
	var stories []domain.Story
	err := a.do(ctx, http.MethodGet, "/api/stories/bookmarks", token, nil, &stories)
	return stories, err
}

func (a *StoryAPIImpl) StoryByID(ctx context.Context, id string) (*domain.Story, error) {
	var story domain.Story
	if err := a.do(ctx, http.MethodGet, "/api/stories/stories/"+url.PathEscape(id), "", nil, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

func (a *StoryAPIImpl) AddStory(ctx context.Context, token string, story domain.NewStory) (*domain.Story, error) {
	var created domain.Story
	if err := a.do(ctx, http.MethodPost, "/api/stories/add", token, story, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *StoryAPIImpl) EditStory(ctx context.Context, token, id string, slides []domain.Slide) error {
	body := struct {
		Slides []domain.Slide `json:"slides"`
	}{Slides: slides}
	return a.do(ctx, http.MethodPut, "/api/stories/edit/"+url.PathEscape(id), token, body, nil)
}
