package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upIndexSessionsUpdatedAt, downIndexSessionsUpdatedAt)
}

func upIndexSessionsUpdatedAt(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions (updated_at);`)
	return err
}

func downIndexSessionsUpdatedAt(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_sessions_updated_at;`)
	return err
}
