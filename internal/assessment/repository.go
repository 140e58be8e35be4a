// internal/assessment/repository.go
package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eb2niw-assessor/internal/common/database"
	"eb2niw-assessor/internal/models"
)

// Repository stores assessments and serves per-user history.
type Repository interface {
	// SaveLatest stores rec and makes it the user's only latest assessment.
	SaveLatest(ctx context.Context, rec *models.AssessmentRecord) error
	History(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS quick_assessments (
	id                          UUID PRIMARY KEY,
	user_id                     TEXT NOT NULL,
	overall_score               NUMERIC(5,2) NOT NULL,
	viability_level             TEXT NOT NULL,
	recommended_route           TEXT NOT NULL,
	category_scores             JSONB NOT NULL,
	route_evaluation            JSONB NOT NULL,
	niw_evaluation              JSONB NOT NULL,
	input_data                  JSONB NOT NULL,
	strengths                   JSONB NOT NULL,
	weaknesses                  JSONB NOT NULL,
	recommendations             JSONB NOT NULL,
	next_steps                  JSONB NOT NULL,
	message                     TEXT NOT NULL,
	estimated_processing_months INTEGER NOT NULL,
	processing_time_ms          BIGINT NOT NULL,
	is_latest                   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at                  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quick_assessments_user_created
	ON quick_assessments (user_id, created_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS idx_quick_assessments_user_latest
	ON quick_assessments (user_id) WHERE is_latest;
`

const (
	// serializes concurrent saves for one user until the transaction ends
	lockUserSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	clearLatestSQL = `UPDATE quick_assessments SET is_latest = false WHERE user_id = $1 AND is_latest = true`

	insertSQL = `
		INSERT INTO quick_assessments (
			id, user_id, overall_score, viability_level, recommended_route,
			category_scores, route_evaluation, niw_evaluation, input_data,
			strengths, weaknesses, recommendations, next_steps, message,
			estimated_processing_months, processing_time_ms, is_latest, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, true, $17)`

	historySQL = `
		SELECT id, user_id, overall_score, viability_level, recommended_route, is_latest, created_at
		FROM quick_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
)

type PostgresRepository struct {
	db *database.PostgresClient
}

func NewPostgresRepository(db *database.PostgresClient) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the assessments table and its indexes when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure quick_assessments schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SaveLatest(ctx context.Context, rec *models.AssessmentRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("save assessment %s: user id is required", rec.ID)
	}
	res := rec.Result

	docs, err := marshalAll(
		res.Scores, res.Routes, res.Waiver, rec.Profile,
		res.Strengths, res.Weaknesses, res.Recommendations, res.NextSteps,
	)
	if err != nil {
		return fmt.Errorf("encode assessment %s: %w", rec.ID, err)
	}

	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, lockUserSQL, rec.UserID); err != nil {
			return fmt.Errorf("lock user assessments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearLatestSQL, rec.UserID); err != nil {
			return fmt.Errorf("clear latest assessment: %w", err)
		}
		_, err := tx.ExecContext(ctx, insertSQL,
			rec.ID,
			rec.UserID,
			res.OverallScore,
			string(res.ViabilityLevel),
			string(res.Routes.RecommendedRoute),
			docs[0], docs[1], docs[2], docs[3],
			docs[4], docs[5], docs[6], docs[7],
			res.Message,
			res.EstimatedProcessingMonths,
			rec.ProcessingTimeMs,
			rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) History(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	rows, err := r.db.DB.QueryContext(ctx, historySQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OverallScore, &e.ViabilityLevel,
			&e.RecommendedRoute, &e.IsLatest, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func marshalAll(values ...interface{}) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
