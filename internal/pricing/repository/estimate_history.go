package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdara/verdara-backend/internal/pricing/domain"
)

// SavedEstimate is one budget estimate a user asked to keep.
type SavedEstimate struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Estimate  domain.Estimate `json:"estimate"`
	CreatedAt time.Time       `json:"createdAt"`
}

// EstimateHistoryRepo persists saved estimates in Postgres.
type EstimateHistoryRepo struct {
	db *sql.DB
}

func NewEstimateHistoryRepo(db *sql.DB) *EstimateHistoryRepo {
	return &EstimateHistoryRepo{db: db}
}

func (r *EstimateHistoryRepo) Save(ctx context.Context, userID string, e domain.Estimate) (*SavedEstimate, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	linesJSON, err := json.Marshal(e.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal estimate lines: %w", err)
	}

	saved := &SavedEstimate{
		ID:       uuid.New().String(),
		UserID:   userID,
		Estimate: e,
	}

	const q = `
INSERT INTO estimates (id, user_id, total_low_usd, total_high_usd, lines, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING created_at;
`
	err = r.db.QueryRowContext(ctx, q,
		saved.ID, userID, e.TotalLowUSD, e.TotalHighUSD, linesJSON,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save estimate: %w", err)
	}
	return saved, nil
}

func (r *EstimateHistoryRepo) ListByUser(ctx context.Context, userID string) ([]SavedEstimate, error) {
	const q = `
SELECT id, user_id, total_low_usd, total_high_usd, lines, created_at
FROM estimates
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedEstimate, 0, 16)
	for rows.Next() {
		var s SavedEstimate
		var linesJSON []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Estimate.TotalLowUSD, &s.Estimate.TotalHighUSD, &linesJSON, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(linesJSON, &s.Estimate.Lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal estimate lines: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
