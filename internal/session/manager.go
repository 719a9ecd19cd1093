package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	sessionrepo "github.com/orgball2608/stories-telegram-bot/internal/repositories/session"
	"github.com/orgball2608/stories-telegram-bot/internal/storyapi"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Repo   sessionrepo.Repository
	API    storyapi.Client
	Clock  clockwork.Clock
	Logger logger.Logger
}

// Manager hands out ChatSessions and runs the auth flows that change them.
// Every caller asking for the same chat gets the same *ChatSession, so a
// login or logout is seen by viewers that are already open.
type Manager struct {
	repo   sessionrepo.Repository
	api    storyapi.Client
	clock  clockwork.Clock
	logger logger.Logger

	mu       sync.Mutex
	sessions map[int64]*ChatSession
}

func New(opts Opts) *Manager {
	return &Manager{
		repo:     opts.Repo,
		api:      opts.API,
		clock:    opts.Clock,
		logger:   opts.Logger.WithComponent("Sessions"),
		sessions: make(map[int64]*ChatSession),
	}
}

func (m *Manager) newSession(chatID int64) *ChatSession {
	return &ChatSession{
		chatID: chatID,
		repo:   m.repo,
		clock:  m.clock,
		logger: m.logger,
	}
}

func (m *Manager) cached(chatID int64) (*ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// shared returns the chat's session, creating an anonymous one if needed.
func (m *Manager) shared(chatID int64) *ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = m.newSession(chatID)
		m.sessions[chatID] = s
	}
	return s
}

// For returns the session of a chat, loading it from storage the first time.
// A chat that never logged in gets an anonymous session, not an error.
func (m *Manager) For(ctx context.Context, chatID int64) (*ChatSession, error) {
	if s, ok := m.cached(chatID); ok {
		return s, nil
	}

	stored, err := m.repo.Get(ctx, chatID)
	if err != nil && !errors.Is(err, sessionrepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	m.mu.Lock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = m.newSession(chatID)
		if stored != nil {
			s.set(stored.Username, stored.Token, stored.UpdatedAt)
		}
		m.sessions[chatID] = s
	}
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Register(ctx context.Context, username, password string) error {
	if err := m.api.Register(ctx, username, password); err != nil {
		return fmt.Errorf("failed to register %s: %w", username, err)
	}
	m.logger.Info("User registered", "username", username)
	return nil
}

// Login exchanges credentials for a token and stores it for the chat.
func (m *Manager) Login(ctx context.Context, chatID int64, username, password string) (*ChatSession, error) {
	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to log in %s: %w", username, err)
	}

	if err := m.repo.Save(ctx, domain.Session{ChatID: chatID, Username: username, Token: token}); err != nil {
		return nil, err
	}

	m.logger.Info("User logged in", "chat_id", chatID, "username", username)

	s := m.shared(chatID)
	s.set(username, token, m.clock.Now())
	return s, nil
}

func (m *Manager) Logout(ctx context.Context, chatID int64) error {
	return m.shared(chatID).Clear(ctx)
}

// Cleanup drops sessions that were not refreshed within maxAge, in storage
// and in the sessions already handed out.
func (m *Manager) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := m.repo.CleanupOldRecords(ctx, maxAge)
	if err != nil {
		return 0, err
	}

	cutoff := m.clock.Now().Add(-maxAge)
	m.mu.Lock()
	for _, s := range m.sessions {
		s.expireBefore(cutoff)
	}
	m.mu.Unlock()
	return n, nil
}
