package storyapiimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
)

func slidePath(storyID, slideID, action string) string {
	return fmt.Sprintf("/api/stories/%s/slides/%s/%s", url.PathEscape(storyID), url.PathEscape(slideID), action)
}

// LikeSlide returns the authoritative like count after the toggle. The
// server may answer with either a number or the list of liking users.
func (a *StoryAPIImpl) LikeSlide(ctx context.Context, token, storyID, slideID string) (int, error) {
	var resp struct {
		Likes json.RawMessage `json:"likes"`
	}
	if err := a.do(ctx, http.MethodPost, slidePath(storyID, slideID, "like"), token, nil, &resp); err != nil {
		return 0, err
	}
	return decodeLikeCount(resp.Likes)
}

func decodeLikeCount(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, apperrors.New("like response carried no likes")
	}

	var count int
	if err := json.Unmarshal(raw, &count); err == nil {
		return count, nil
	}

	var users []json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		return 0, fmt.Errorf("failed to decode likes: %w", err)
	}
	return len(users), nil
}

func (a *StoryAPIImpl) BookmarkStory(ctx context.Context, token, storyID string) error {
	return a.do(ctx, http.MethodPost, "/api/stories/"+url.PathEscape(storyID)+"/bookmark", token, nil, nil)
}

func (a *StoryAPIImpl) DownloadLink(ctx context.Context, storyID, slideID string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := a.do(ctx, http.MethodGet, slidePath(storyID, slideID, "download"), "", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", apperrors.New("download response carried no url")
	}
	return resp.URL, nil
}

func (a *StoryAPIImpl) ShareLink(ctx context.Context, storyID string) (string, error) {
	var resp struct {
		Link string `json:"link"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/stories/"+url.PathEscape(storyID)+"/share", "", nil, &resp); err != nil {
		return "", err
	}
	if resp.Link == "" {
		return "", apperrors.New("share response carried no link")
	}
	return resp.Link, nil
}
