package database

import (
	"context"
	"database/sql"
	"fmt"

	"callerinfo/models"
)

// ==================== CALLER OPERATIONS ====================

func (r *Repository) ListCallers(ctx context.Context) ([]models.Caller, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, name, last_update, type, offline
		FROM callers
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query callers: %w", err)
	}
	defer rows.Close()

	return collectCallers(rows)
}

// FindCallers returns every caller row for number, most recently inserted first
func (r *Repository) FindCallers(ctx context.Context, number string) ([]models.Caller, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, name, last_update, type, offline
		FROM callers
		WHERE number = ?
		ORDER BY id DESC
	`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query callers for %s: %w", number, err)
	}
	defer rows.Close()

	return collectCallers(rows)
}

// SaveCaller inserts or overwrites a caller by ID, writing the assigned ID back.
func (r *Repository) SaveCaller(ctx context.Context, caller *models.Caller) error {
	if caller.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO callers (number, name, last_update, type, offline)
			VALUES (?, ?, ?, ?, ?)
		`, caller.Number, caller.Name, toMillis(caller.LastUpdate), caller.Type, boolToInt(caller.Offline))
		if err != nil {
			return fmt.Errorf("failed to insert caller: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read caller id: %w", err)
		}
		caller.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO callers (id, number, name, last_update, type, offline)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			name = excluded.name,
			last_update = excluded.last_update,
			type = excluded.type,
			offline = excluded.offline
	`, caller.ID, caller.Number, caller.Name, toMillis(caller.LastUpdate), caller.Type, boolToInt(caller.Offline))
	if err != nil {
		return fmt.Errorf("failed to save caller %d: %w", caller.ID, err)
	}
	return nil
}

func (r *Repository) DeleteCaller(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM callers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete caller %d: %w", id, err)
	}
	return nil
}

func collectCallers(rows *sql.Rows) ([]models.Caller, error) {
	callers := make([]models.Caller, 0)
	for rows.Next() {
		caller, err := scanCaller(rows)
		if err != nil {
			return nil, err
		}
		callers = append(callers, caller)
	}
	return callers, rows.Err()
}

func scanCaller(row rowScanner) (models.Caller, error) {
	var (
		caller     models.Caller
		lastUpdate int64
		offline    int
	)
	if err := row.Scan(&caller.ID, &caller.Number, &caller.Name, &lastUpdate, &caller.Type, &offline); err != nil {
		return models.Caller{}, fmt.Errorf("failed to scan caller: %w", err)
	}
	caller.LastUpdate = fromMillis(lastUpdate)
	caller.Offline = offline == 1
	return caller, nil
}
