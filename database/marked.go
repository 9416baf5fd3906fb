package database

import (
	"context"
	"database/sql"
	"fmt"

	"callerinfo/models"
)

// ==================== MARKED RECORD OPERATIONS ====================

func (r *Repository) ListMarked(ctx context.Context) ([]models.MarkedRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, type, type_name, time, reported, source
		FROM marked_records
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query marked records: %w", err)
	}
	defer rows.Close()

	return collectMarked(rows)
}

// FindMarked returns every marked record for number in lookup order (oldest row first).
// More than one result means the one-record-per-number invariant was broken upstream.
func (r *Repository) FindMarked(ctx context.Context, number string) ([]models.MarkedRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, type, type_name, time, reported, source
		FROM marked_records
		WHERE number = ?
		ORDER BY id ASC
	`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query marked records for %s: %w", number, err)
	}
	defer rows.Close()

	return collectMarked(rows)
}

// SaveMarked inserts or overwrites a marked record by ID, writing the assigned ID back.
func (r *Repository) SaveMarked(ctx context.Context, rec *models.MarkedRecord) error {
	if rec.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO marked_records (number, type, type_name, time, reported, source)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.Number, rec.Type, rec.TypeName, toMillis(rec.Time), boolToInt(rec.Reported), rec.Source)
		if err != nil {
			return fmt.Errorf("failed to insert marked record: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read marked record id: %w", err)
		}
		rec.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO marked_records (id, number, type, type_name, time, reported, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			type = excluded.type,
			type_name = excluded.type_name,
			time = excluded.time,
			reported = excluded.reported,
			source = excluded.source
	`, rec.ID, rec.Number, rec.Type, rec.TypeName, toMillis(rec.Time), boolToInt(rec.Reported), rec.Source)
	if err != nil {
		return fmt.Errorf("failed to save marked record %d: %w", rec.ID, err)
	}
	return nil
}

// UpdateMarked rewrites an existing row. It does nothing if the row is gone.
func (r *Repository) UpdateMarked(ctx context.Context, rec models.MarkedRecord) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE marked_records SET
			number = ?,
			type = ?,
			type_name = ?,
			time = ?,
			reported = ?,
			source = ?
		WHERE id = ?
	`, rec.Number, rec.Type, rec.TypeName, toMillis(rec.Time), boolToInt(rec.Reported), rec.Source, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update marked record %d: %w", rec.ID, err)
	}
	return nil
}

func (r *Repository) DeleteMarked(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM marked_records WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete marked record %d: %w", id, err)
	}
	return nil
}

func collectMarked(rows *sql.Rows) ([]models.MarkedRecord, error) {
	records := make([]models.MarkedRecord, 0)
	for rows.Next() {
		rec, err := scanMarked(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanMarked(row rowScanner) (models.MarkedRecord, error) {
	var (
		rec      models.MarkedRecord
		t        int64
		reported int
	)
	if err := row.Scan(&rec.ID, &rec.Number, &rec.Type, &rec.TypeName, &t, &reported, &rec.Source); err != nil {
		return models.MarkedRecord{}, fmt.Errorf("failed to scan marked record: %w", err)
	}
	rec.Time = fromMillis(t)
	rec.Reported = reported == 1
	return rec, nil
}
