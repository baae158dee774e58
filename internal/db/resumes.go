package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-studio/internal/types"
)

// GetResume loads a resume document. Returns nil, nil if it does not exist.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.ResumeDocument, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM resumes WHERE id = $1`, id,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	doc.ID = id.String()
	return &doc, nil
}

// SaveResume inserts or replaces a resume document. A document without an ID
// gets a new one, which is returned.
func (db *DB) SaveResume(ctx context.Context, doc types.ResumeDocument) (uuid.UUID, error) {
	id := uuid.New()
	if doc.ID != "" {
		parsed, err := uuid.Parse(doc.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid resume id %q: %w", doc.ID, err)
		}
		id = parsed
	}
	doc.ID = id.String()

	content, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resumes (id, title, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET title = $2, content = $3, updated_at = NOW()`,
		id, doc.Title, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return id, nil
}

// ListResumes returns the most recently updated resumes first
func (db *DB) ListResumes(ctx context.Context, limit int) ([]ResumeSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at
		 FROM resumes ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []ResumeSummary
	for rows.Next() {
		var r ResumeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteResume removes a resume. Deleting a missing resume is not an error.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}
