package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GenerationInput is the data saved for one generated piece of copy
type GenerationInput struct {
	UserKey      string
	Keyword      string
	ContentType  string
	Title        string
	Content      string
	QualityScore int
	QualityGrade string
	Report       any
}

// SaveGeneration stores generated copy with its report and returns the new ID
func (db *DB) SaveGeneration(ctx context.Context, in *GenerationInput) (uuid.UUID, error) {
	reportJSON, err := json.Marshal(in.Report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO generations (id, user_key, keyword, content_type, title, content, quality_score, quality_grade, report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, in.UserKey, in.Keyword, in.ContentType, in.Title, in.Content, in.QualityScore, in.QualityGrade, reportJSON,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save generation: %w", err)
	}
	return id, nil
}

// ListGenerations returns a user's most recent generations, newest first
func (db *DB) ListGenerations(ctx context.Context, userKey string, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_key, keyword, content_type, title, content, quality_score, quality_grade, report, created_at
		 FROM generations WHERE user_key = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var generations []Generation
	for rows.Next() {
		var g Generation
		var report []byte
		if err := rows.Scan(&g.ID, &g.UserKey, &g.Keyword, &g.ContentType, &g.Title, &g.Content,
			&g.QualityScore, &g.QualityGrade, &report, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		g.Report = json.RawMessage(report)
		generations = append(generations, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generations: %w", err)
	}
	return generations, nil
}
