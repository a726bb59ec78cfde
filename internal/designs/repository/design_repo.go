package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/verdara/verdara-backend/internal/designs/domain"
	"github.com/verdara/verdara-backend/internal/designs/sanitize"
)

const (
	// galleryBatchSize is the page size for the public gallery scan.
	galleryBatchSize = 100

	// fetchAllThreshold: a requested count at or above this is treated
	// as "fetch the whole collection".
	fetchAllThreshold = 1000
)

// DocStore is the document store boundary for the designs collection.
// Cursors are opaque: produced and consumed only by the same
// implementation. PageOrdered may fail with domain.ErrIndexMissing when
// the store has no composite index for the ordered query shape.
type DocStore interface {
	Insert(ctx context.Context, d domain.Design) (string, error)
	GetByID(ctx context.Context, id string) (domain.Design, error)
	QueryOwner(ctx context.Context, ownerID string) ([]domain.Design, error)
	QueryPublicID(ctx context.Context, publicID string) (domain.Design, error)
	PageOrdered(ctx context.Context, cursor any, limit int) ([]domain.Design, any, error)
	PageUnordered(ctx context.Context, cursor any, limit int) ([]domain.Design, any, error)
	Delete(ctx context.Context, id string) error
}

// DesignRepository persists storage-safe designs and serves the public
// gallery, falling back to an unordered scan when the ordered query is
// rejected for a missing composite index.
type DesignRepository struct {
	store       DocStore
	sanitizer   *sanitize.Sanitizer
	newPublicID func() (string, error)
}

func NewDesignRepository(store DocStore, sanitizer *sanitize.Sanitizer) *DesignRepository {
	return &DesignRepository{
		store:       store,
		sanitizer:   sanitizer,
		newPublicID: domain.NewPublicID,
	}
}

// Save persists a design for the given owner and returns the internal
// and public ids. Payloads that still carry inline images are routed
// through the sanitizer first; pre-sanitized payloads skip it, so a
// caller that already uploaded its assets is not charged twice. After
// sanitization the write is a single document insert — no blob traffic
// happens past that point.
func (r *DesignRepository) Save(ctx context.Context, ownerID string, d domain.Design, visibility *bool) (string, string, error) {
	if ownerID == "" {
		return "", "", fmt.Errorf("owner id required")
	}

	if d.HasInlineImages() {
		var err error
		d, err = r.sanitizer.Sanitize(ctx, ownerID, d)
		if err != nil {
			return "", "", err
		}
	}

	if visibility != nil {
		v := *visibility
		d.IsPublic = &v
	}

	publicID, err := r.newPublicID()
	if err != nil {
		return "", "", fmt.Errorf("generate public id: %w", err)
	}

	d.OwnerID = ownerID
	d.PublicID = publicID

	id, err := r.store.Insert(ctx, d)
	if err != nil {
		return "", "", fmt.Errorf("insert design: %w", err)
	}
	return id, publicID, nil
}

func (r *DesignRepository) GetByID(ctx context.Context, id string) (domain.Design, error) {
	return r.store.GetByID(ctx, id)
}

// GetByPublicID returns the first document matching the public id. On a
// collision the pick is whatever the store returns first.
func (r *DesignRepository) GetByPublicID(ctx context.Context, publicID string) (domain.Design, error) {
	return r.store.QueryPublicID(ctx, publicID)
}

// ListOwnedBy fetches by owner equality and sorts client side, which
// avoids needing a composite index on ownerId + createdAt.
func (r *DesignRepository) ListOwnedBy(ctx context.Context, ownerID string) ([]domain.Design, error) {
	designs, err := r.store.QueryOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner designs: %w", err)
	}
	sortByCreatedDesc(designs)
	return designs, nil
}

// ListPublic returns up to count public designs, newest first.
//
// The primary path pages through the collection ordered by createdAt
// descending. If the store rejects that for a missing composite index,
// the fallback reads the whole collection unordered and sorts client
// side. Either way the privacy and image-presence filters apply after
// accumulation. A mid-loop fetch error degrades to whatever was
// accumulated; only a total failure returns ErrStoreUnreachable so the
// caller can tell "no designs" from "store down".
func (r *DesignRepository) ListPublic(ctx context.Context, count int) ([]domain.Design, error) {
	all, err := r.collectOrdered(ctx, count)
	if errors.Is(err, domain.ErrIndexMissing) {
		log.Printf("[designs] ordered gallery query needs a composite index, falling back to unordered scan")
		all, err = r.collectUnordered(ctx)
		sortByCreatedDesc(all)
	}
	if err != nil {
		// A caller that gave up gets nothing: serving (and caching) a
		// half-paginated gallery as if it were complete is worse than
		// the error. Only store-side failures degrade to partials.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("gallery listing cancelled: %w", err)
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
		}
		// Partial gallery beats a broken page.
		log.Printf("[designs] gallery pagination stopped early, serving %d accumulated designs: %v", len(all), err)
	}

	filtered := all[:0:0]
	for _, d := range all {
		if d.Visible() && d.Complete() {
			filtered = append(filtered, d)
		}
	}

	if count < len(filtered) {
		filtered = filtered[:count]
	}
	return filtered, nil
}

// AllDesigns reads the whole collection via the unordered scan. Used by
// the orphan sweeper to compute the live asset set.
func (r *DesignRepository) AllDesigns(ctx context.Context) ([]domain.Design, error) {
	return r.collectUnordered(ctx)
}

func (r *DesignRepository) Delete(ctx context.Context, id string) error {
	// Hard delete of the document only. Associated blobs are left for
	// the garbage collection sweep.
	return r.store.Delete(ctx, id)
}

func (r *DesignRepository) collectOrdered(ctx context.Context, count int) ([]domain.Design, error) {
	var out []domain.Design
	var cursor any
	for {
		page, next, err := r.store.PageOrdered(ctx, cursor, galleryBatchSize)
		if err != nil {
			return out, err
		}
		out = append(out, page...)
		if len(page) < galleryBatchSize {
			break
		}
		if count < fetchAllThreshold && len(out) >= count {
			break
		}
		cursor = next
	}
	return out, nil
}

func (r *DesignRepository) collectUnordered(ctx context.Context) ([]domain.Design, error) {
	var out []domain.Design
	var cursor any
	for {
		page, next, err := r.store.PageUnordered(ctx, cursor, galleryBatchSize)
		if err != nil {
			return out, err
		}
		out = append(out, page...)
		if len(page) < galleryBatchSize {
			break
		}
		cursor = next
	}
	return out, nil
}

func sortByCreatedDesc(designs []domain.Design) {
	sort.SliceStable(designs, func(i, j int) bool {
		return designs[i].CreatedAt.After(designs[j].CreatedAt)
	})
}
