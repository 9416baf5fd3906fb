package database

import (
	"context"
	"fmt"

	"callerinfo/models"
)

// ==================== CALL OPERATIONS ====================

// ListCalls returns the whole call history, newest first
func (r *Repository) ListCalls(ctx context.Context) ([]models.CallRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, time, ring_time, duration
		FROM calls
		ORDER BY time DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer rows.Close()

	calls := make([]models.CallRecord, 0)
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// SaveCall inserts the record when it has no ID yet, otherwise overwrites the row
// with the same ID. The assigned ID is written back to call.
func (r *Repository) SaveCall(ctx context.Context, call *models.CallRecord) error {
	if call.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO calls (number, time, ring_time, duration)
			VALUES (?, ?, ?, ?)
		`, call.Number, toMillis(call.Time), call.RingTime, call.Duration)
		if err != nil {
			return fmt.Errorf("failed to insert call: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read call id: %w", err)
		}
		call.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calls (id, number, time, ring_time, duration)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			time = excluded.time,
			ring_time = excluded.ring_time,
			duration = excluded.duration
	`, call.ID, call.Number, toMillis(call.Time), call.RingTime, call.Duration)
	if err != nil {
		return fmt.Errorf("failed to save call %d: %w", call.ID, err)
	}
	return nil
}

// DeleteCall removes one call record. Deleting a missing row is not an error.
func (r *Repository) DeleteCall(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM calls WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete call %d: %w", id, err)
	}
	return nil
}

func scanCall(row rowScanner) (models.CallRecord, error) {
	var (
		call models.CallRecord
		t    int64
	)
	if err := row.Scan(&call.ID, &call.Number, &t, &call.RingTime, &call.Duration); err != nil {
		return models.CallRecord{}, fmt.Errorf("failed to scan call: %w", err)
	}
	call.Time = fromMillis(t)
	return call, nil
}
