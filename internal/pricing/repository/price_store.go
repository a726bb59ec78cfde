package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdara/verdara-backend/internal/pricing/domain"
)

// PriceStore keeps the plant/material price catalog in Postgres.
type PriceStore struct {
	db *pgxpool.Pool
}

func NewPriceStore(db *pgxpool.Pool) *PriceStore {
	return &PriceStore{db: db}
}

func (s *PriceStore) Upsert(ctx context.Context, e domain.PriceEntry) error {
	const sql = `
INSERT INTO plant_prices (category, size, low_usd, high_usd, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (category, size) DO UPDATE
  SET low_usd = EXCLUDED.low_usd,
      high_usd = EXCLUDED.high_usd,
      updated_at = now()
;`
	_, err := s.db.Exec(ctx, sql, e.Category, e.Size, e.LowUSD, e.HighUSD)
	return err
}

func (s *PriceStore) UpsertBatch(ctx context.Context, entries []domain.PriceEntry) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const sql = `
INSERT INTO plant_prices (category, size, low_usd, high_usd, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (category, size) DO UPDATE
  SET low_usd = EXCLUDED.low_usd,
      high_usd = EXCLUDED.high_usd,
      updated_at = now()
;`
	for _, e := range entries {
		if _, err := tx.Exec(ctx, sql, e.Category, e.Size, e.LowUSD, e.HighUSD); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PriceStore) All(ctx context.Context) ([]domain.PriceEntry, error) {
	const sql = `
SELECT category, size, low_usd, high_usd, updated_at
FROM plant_prices
ORDER BY category, size;
`
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PriceEntry, 0, 64)
	for rows.Next() {
		var e domain.PriceEntry
		if err := rows.Scan(&e.Category, &e.Size, &e.LowUSD, &e.HighUSD, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PriceStore) ByCategory(ctx context.Context, category string) ([]domain.PriceEntry, error) {
	const sql = `
SELECT category, size, low_usd, high_usd, updated_at
FROM plant_prices
WHERE category = $1
ORDER BY size;
`
	rows, err := s.db.Query(ctx, sql, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PriceEntry, 0, 8)
	for rows.Next() {
		var e domain.PriceEntry
		if err := rows.Scan(&e.Category, &e.Size, &e.LowUSD, &e.HighUSD, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
