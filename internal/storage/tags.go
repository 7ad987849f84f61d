package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
)

// SaveAudioTag stores or updates the tag for one audio file. Saving after
// every file is what makes a tagging run resumable.
func (s *SQLiteStorage) SaveAudioTag(ctx context.Context, tag *model.AudioTag) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTag(tag); err != nil {
		return err
	}

	taggedAt := tag.TaggedAt
	if taggedAt.IsZero() {
		taggedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audio_tags (file_name, raga, composition_type, paltaas, taal, explanation, model, tagged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			raga = excluded.raga,
			composition_type = excluded.composition_type,
			paltaas = excluded.paltaas,
			taal = excluded.taal,
			explanation = excluded.explanation,
			model = excluded.model,
			tagged_at = excluded.tagged_at
	`, tag.FileName, tag.Raga, tag.CompositionType, tag.Paltaas, tag.Taal,
		tag.Explanation, tag.Model, taggedAt)
	if err != nil {
		return fmt.Errorf("failed to save audio tag: %w", err)
	}
	return nil
}

// GetAudioTag returns the tag for a file name, or common.ErrNotFound.
func (s *SQLiteStorage) GetAudioTag(ctx context.Context, fileName string) (*model.AudioTag, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(fileName, "fileName"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT file_name, raga, composition_type, paltaas, taal, explanation, model, tagged_at
		FROM audio_tags WHERE file_name = ?
	`, fileName)

	tag, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: audio tag for %s", common.ErrNotFound, fileName)
	}
	return tag, err
}

// GetTaggedFileNames returns the set of file names that already carry a tag.
func (s *SQLiteStorage) GetTaggedFileNames(ctx context.Context) (map[string]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT file_name FROM audio_tags`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tagged files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tagged := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan file name: %w", err)
		}
		tagged[name] = true
	}
	return tagged, rows.Err()
}

// GetAudioTags returns all stored tags ordered by file name.
func (s *SQLiteStorage) GetAudioTags(ctx context.Context) ([]model.AudioTag, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT file_name, raga, composition_type, paltaas, taal, explanation, model, tagged_at
		FROM audio_tags ORDER BY file_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query audio tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []model.AudioTag
	for rows.Next() {
		tag, scanErr := scanTag(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (*model.AudioTag, error) {
	var tag model.AudioTag
	var explanation, modelName sql.NullString
	var taggedAt sql.NullTime

	err := row.Scan(&tag.FileName, &tag.Raga, &tag.CompositionType, &tag.Paltaas,
		&tag.Taal, &explanation, &modelName, &taggedAt)
	if err != nil {
		return nil, err
	}

	tag.Explanation = explanation.String
	tag.Model = modelName.String
	tag.TaggedAt = scanNullableTime(taggedAt)
	return &tag, nil
}
