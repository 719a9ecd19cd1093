package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	sessionrepo "github.com/orgball2608/stories-telegram-bot/internal/repositories/session"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
)

// ChatSession is the login state of one Telegram chat. It is handed to
// whoever needs the bearer token instead of being read from storage ad hoc.
type ChatSession struct {
	chatID int64
	repo   sessionrepo.Repository
	clock  clockwork.Clock
	logger logger.Logger

	mu        sync.RWMutex
	username  string
	token     string
	updatedAt time.Time
}

func (s *ChatSession) set(username, token string, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = token
	s.updatedAt = updatedAt
}

// expireBefore forgets a token last stored before cutoff. Storage is
// cleaned separately.
func (s *ChatSession) expireBefore(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.updatedAt.Before(cutoff) {
		s.token = ""
		s.username = ""
	}
}

func (s *ChatSession) ChatID() int64 {
	return s.chatID
}

func (s *ChatSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *ChatSession) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// LoggedIn reports whether a usable token is present. Tokens that decode as
// JWTs are also checked for expiry; opaque tokens count by presence alone.
func (s *ChatSession) LoggedIn() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return !tokenExpired(token, s.clock)
}

// Clear forgets the token locally and in storage.
func (s *ChatSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	err := s.repo.Delete(ctx, s.chatID)
	if err != nil && !errors.Is(err, sessionrepo.ErrNotFound) {
		s.logger.Error("Failed to clear session", "chat_id", s.chatID, "error", err)
		return err
	}
	return nil
}

func tokenExpired(token string, clock clockwork.Clock) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !clock.Now().Before(claims.ExpiresAt.Time)
}
