package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
)

// SaveMessages inserts messages, ignoring any whose dedup hash is already
// stored. Returns how many rows were actually added.
func (s *SQLiteStorage) SaveMessages(ctx context.Context, messages []model.Message) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO messages (hash, date, time, sender, body, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	added := 0
	for i := range messages {
		msg := &messages[i]
		if err := validateMessage(msg); err != nil {
			return added, err
		}

		var sentAt any
		if ts, derr := msg.DateTime(); derr == nil {
			sentAt = ts.UTC()
		}

		res, execErr := stmt.ExecContext(ctx,
			msg.DedupHash(), msg.Date, msg.Time, msg.Sender, msg.Body, sentAt)
		if execErr != nil {
			return added, fmt.Errorf("failed to insert message: %w", execErr)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return added, fmt.Errorf("failed to commit: %w", err)
	}
	return added, nil
}

// GetMessages returns stored messages matching the filter, chronologically
// ordered; messages without a derivable send time sort last.
func (s *SQLiteStorage) GetMessages(ctx context.Context, filter service.MessageFilter) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT date, time, sender, body FROM messages`
	var conds []string
	var args []any

	if filter.Sender != "" {
		conds = append(conds, `LOWER(sender) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Sender)+"%")
	}
	if filter.Search != "" {
		conds = append(conds, `LOWER(body) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sent_at IS NULL, sent_at, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.Date, &m.Time, &m.Sender, &m.Body); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

// GetMessageCount returns the number of stored messages.
func (s *SQLiteStorage) GetMessageCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// scanNullableTime converts a nullable DATETIME column into a time.Time,
// returning the zero value for NULL.
func scanNullableTime(v sql.NullTime) time.Time {
	if v.Valid {
		return v.Time
	}
	return time.Time{}
}
