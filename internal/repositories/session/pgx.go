package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/internal/domain"
	"github.com/orgball2608/stories-telegram-bot/internal/repositories"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
)

const table = "sessions"

// querier is the part of *pgxpool.Pool the repository uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxRepository struct {
	pool   querier
	clock  clockwork.Clock
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, clock clockwork.Clock, logger logger.Logger) *PgxRepository {
	return newRepository(pool, clock, logger)
}

func newRepository(pool querier, clock clockwork.Clock, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		clock:  clock,
		logger: logger.WithComponent("SessionRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	query, args, err := repositories.SqBuilder.
		Select("chat_id", "username", "token", "created_at", "updated_at").
		From(table).
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var s domain.Session
	err = r.pool.QueryRow(ctx, query, args...).Scan(&s.ChatID, &s.Username, &s.Token, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session for chat %d: %w", chatID, err)
	}

	return &s, nil
}

// Save stores the token for a chat, replacing any previous login.
func (r *PgxRepository) Save(ctx context.Context, s domain.Session) error {
	now := r.clock.Now()
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("chat_id", "username", "token", "created_at", "updated_at").
		Values(s.ChatID, s.Username, s.Token, now, now).
		Suffix("ON CONFLICT (chat_id) DO UPDATE SET username = EXCLUDED.username, token = EXCLUDED.token, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save session for chat %d: %w", s.ChatID, err)
	}
	return nil
}

func (r *PgxRepository) Delete(ctx context.Context, chatID int64) error {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete session for chat %d: %w", chatID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CleanupOldRecords deletes sessions not refreshed within olderThan.
func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Lt{"updated_at": r.clock.Now().Add(-olderThan)}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}

	r.logger.Debug("Old sessions removed", "rows", result.RowsAffected())
	return result.RowsAffected(), nil
}
