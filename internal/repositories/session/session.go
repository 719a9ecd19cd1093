package session

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/stories-telegram-bot/internal/domain"
)

var ErrNotFound = errors.New("session not found")

//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=mocks/mock.go

type Repository interface {
	Get(ctx context.Context, chatID int64) (*domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, chatID int64) error
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
