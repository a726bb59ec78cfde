package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/verdara/verdara-backend/config"
	"github.com/verdara/verdara-backend/internal/bootstrap"
	"github.com/verdara/verdara-backend/internal/pricing/domain"
	"github.com/verdara/verdara-backend/internal/pricing/repository"
	"github.com/verdara/verdara-backend/internal/storage/postgres"
)

// RunImportPrices loads the price catalog into Postgres. With a CSV path
// it imports that file (category,size,low_usd,high_usd per row),
// otherwise it loads the baseline seed catalog.
func RunImportPrices(args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	entries := repository.SeedEntries()
	if len(args) > 0 {
		entries, err = readPriceCSV(args[0])
		if err != nil {
			log.Fatalf("read csv: %v", err)
		}
	}

	store := repository.NewPriceStore(pool)
	if err := store.UpsertBatch(ctx, entries); err != nil {
		log.Fatalf("import prices: %v", err)
	}

	log.Printf("imported %d price entries", len(entries))
}

func readPriceCSV(path string) ([]domain.PriceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]domain.PriceEntry, 0, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "category") {
			continue // header
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, got %d", i+1, len(row))
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: low: %w", i+1, err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: high: %w", i+1, err)
		}
		out = append(out, domain.PriceEntry{
			Category: strings.ToLower(strings.TrimSpace(row[0])),
			Size:     strings.TrimSpace(row[1]),
			LowUSD:   low,
			HighUSD:  high,
		})
	}
	return out, nil
}
