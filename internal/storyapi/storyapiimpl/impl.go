package storyapiimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

const maxErrorBody = 4 << 10

type Opts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *http.Client `optional:"true"`
}

type StoryAPIImpl struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

func New(opts Opts) *StoryAPIImpl {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &StoryAPIImpl{
		baseURL: strings.TrimRight(opts.Config.API.BaseURL, "/"),
		http:    httpClient,
		logger:  opts.Logger.WithComponent("StoryAPI"),
	}
}

var _ storyapi.Client = (*StoryAPIImpl)(nil)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request against the API. body and out are JSON encoded and
// decoded when non-nil. Non-2xx responses become pkg/errors values.
func (a *StoryAPIImpl) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Error("Stories API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer safeClose(resp.Body, a.logger)

	a.logger.Debug("Stories API response", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return apperrors.FromStatus(resp.StatusCode, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func safeClose(closer io.ReadCloser, logger logger.Logger) {
	if err := closer.Close(); err != nil {
		logger.Error("Error closing response body", "error", err)
	}
}
