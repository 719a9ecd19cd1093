package storyapiimpl

import (
	"context"
	"net/http"

	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *StoryAPIImpl) Register(ctx context.Context, username, password string) error {
	return a.do(ctx, http.MethodPost, "/api/auth/register", "", credentials{username, password}, nil)
}

func (a *StoryAPIImpl) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperrors.New("login response carried no token")
	}
	return resp.Token, nil
}

func (a *StoryAPIImpl) Me(ctx context.Context, token string) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}
