package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kiddomusic/riyaz/internal/model"
)

// ReplaceClassDates replaces the stored class-date calendar with the given
// extraction result. Extraction is deterministic over the message archive, so
// the table is rebuilt rather than reconciled.
func (s *SQLiteStorage) ReplaceClassDates(ctx context.Context, dates []model.ClassDate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM class_dates`); err != nil {
		return fmt.Errorf("failed to clear class dates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO class_dates (date, time, type, evidence, sent_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range dates {
		var sentAt any
		if !d.SentAt.IsZero() {
			sentAt = d.SentAt.UTC()
		}
		if _, err := stmt.ExecContext(ctx, d.Date, d.Time, string(d.Type), d.Evidence, sentAt); err != nil {
			return fmt.Errorf("failed to insert class date: %w", err)
		}
	}

	return tx.Commit()
}

// GetClassDates returns the stored class-date calendar in extraction order.
func (s *SQLiteStorage) GetClassDates(ctx context.Context) ([]model.ClassDate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, time, type, evidence, sent_at FROM class_dates ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query class dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []model.ClassDate
	for rows.Next() {
		var d model.ClassDate
		var eventType string
		var sentAt sql.NullTime
		if err := rows.Scan(&d.Date, &d.Time, &eventType, &d.Evidence, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan class date: %w", err)
		}
		d.Type = model.EventType(eventType)
		d.SentAt = scanNullableTime(sentAt)
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class dates: %w", err)
	}
	return dates, nil
}
