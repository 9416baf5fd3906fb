package database

import (
	"context"
	"fmt"
	"time"

	"callerinfo/models"
)

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Counts returns the number of rows in each table
func (r *Repository) Counts(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM calls),
			(SELECT COUNT(*) FROM callers),
			(SELECT COUNT(*) FROM marked_records)
	`).Scan(&stats.Calls, &stats.Callers, &stats.Marked)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to count rows: %w", err)
	}
	return stats, nil
}

// Timestamps are stored as unix milliseconds, 0 meaning unset.

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
