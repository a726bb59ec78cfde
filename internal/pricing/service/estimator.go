package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/verdara/verdara-backend/internal/pricing/domain"
)

const catalogRefresh = 10 * time.Minute

// PriceSource yields the full price catalog.
type PriceSource interface {
	All(ctx context.Context) ([]domain.PriceEntry, error)
}

// Estimator computes budget estimates from the price catalog. The
// catalog is small, so it is cached in process and refreshed lazily.
type Estimator struct {
	source PriceSource

	mu        sync.Mutex
	catalog   []domain.PriceEntry
	fetchedAt time.Time
}

func NewEstimator(source PriceSource) *Estimator {
	return &Estimator{source: source}
}

// Estimate prices each item against the catalog and sums the low/high
// totals. Category matching is fuzzy: a catalog category matches when
// it appears inside the item's category or name. Within a category the
// first size containing the item's size string wins, defaulting to the
// category's first size. Unknown items are priced 0 with a note rather
// than dropped, so the breakdown always mirrors the request.
func (e *Estimator) Estimate(ctx context.Context, items []domain.EstimateItem) (domain.Estimate, error) {
	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("load price catalog: %w", err)
	}

	var out domain.Estimate
	out.Lines = make([]domain.EstimateLine, 0, len(items))

	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		line := domain.EstimateLine{Item: item.Name, Quantity: qty}
		if entry, ok := matchEntry(catalog, item); ok {
			line.UnitPrice = entry.Range()
			line.LowUSD = entry.LowUSD * float64(qty)
			line.HighUSD = entry.HighUSD * float64(qty)
		} else {
			line.UnitPrice = "$0 - $0"
			line.Note = "no market price on file"
		}

		out.TotalLowUSD += line.LowUSD
		out.TotalHighUSD += line.HighUSD
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

func (e *Estimator) loadCatalog(ctx context.Context) ([]domain.PriceEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.catalog != nil && time.Since(e.fetchedAt) < catalogRefresh {
		return e.catalog, nil
	}

	catalog, err := e.source.All(ctx)
	if err != nil {
		if e.catalog != nil {
			log.Printf("[pricing] catalog refresh failed, using stale copy: %v", err)
			return e.catalog, nil
		}
		return nil, err
	}

	e.catalog = catalog
	e.fetchedAt = time.Now()
	return e.catalog, nil
}

func matchEntry(catalog []domain.PriceEntry, item domain.EstimateItem) (domain.PriceEntry, bool) {
	category := strings.ToLower(item.Category)
	if category == "" {
		category = "plant"
	}
	name := strings.ToLower(item.Name)

	var candidates []domain.PriceEntry
	for _, entry := range catalog {
		if strings.Contains(category, entry.Category) || strings.Contains(name, entry.Category) {
			if len(candidates) > 0 && candidates[0].Category != entry.Category {
				continue
			}
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return domain.PriceEntry{}, false
	}

	size := strings.ToLower(item.Size)
	for _, entry := range candidates {
		if size != "" && strings.Contains(size, strings.ToLower(entry.Size)) {
			return entry, true
		}
	}
	// No size match: default to the category's first listed size.
	return candidates[0], true
}
