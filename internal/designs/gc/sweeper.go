package gc

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/verdara/verdara-backend/internal/designs/domain"
)

const assetRoot = "designs/"

// ObjectStore is what the sweeper needs from a blob backend.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, path string) error
}

// DesignSource yields the full design collection so the sweeper can
// compute the set of asset prefixes still referenced by live documents.
type DesignSource interface {
	AllDesigns(ctx context.Context) ([]domain.Design, error)
}

// Sweeper removes blob objects orphaned by design deletion. Deleting a
// design is a document-only hard delete; this sweep is the separate
// garbage collection pass that reclaims the storage.
type Sweeper struct {
	store   ObjectStore
	designs DesignSource
	grace   time.Duration
	now     func() time.Time
}

func NewSweeper(store ObjectStore, designs DesignSource) *Sweeper {
	return &Sweeper{
		store:   store,
		designs: designs,
		// Prefix timestamps younger than the grace window are skipped so
		// the sweep never races an in-flight save.
		grace: 24 * time.Hour,
		now:   time.Now,
	}
}

// Sweep deletes every object whose designs/{owner}/{timestamp} prefix is
// no longer referenced by any document and is older than the grace
// window. Returns the number of objects removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	all, err := s.designs.AllDesigns(ctx)
	if err != nil {
		return 0, fmt.Errorf("load live designs: %w", err)
	}

	live := make(map[string]struct{})
	for _, d := range all {
		for _, url := range assetURLs(d) {
			if p, ok := prefixFromURL(url); ok {
				live[p] = struct{}{}
			}
		}
	}

	keys, err := s.store.List(ctx, assetRoot)
	if err != nil {
		return 0, fmt.Errorf("list stored objects: %w", err)
	}

	removed := 0
	for _, key := range keys {
		prefix, stamp, ok := splitKey(key)
		if !ok {
			continue
		}
		if _, referenced := live[prefix]; referenced {
			continue
		}
		if s.now().Sub(stamp) < s.grace {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("[gc] failed to delete orphan %s: %v", key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func assetURLs(d domain.Design) []string {
	urls := make([]string, 0, len(d.RenderImageURLs)+2)
	if d.OriginalImageURL != "" {
		urls = append(urls, d.OriginalImageURL)
	}
	urls = append(urls, d.RenderImageURLs...)
	if d.PlanImageURL != "" {
		urls = append(urls, d.PlanImageURL)
	}
	if d.CostEstimate != nil {
		for _, item := range d.CostEstimate.Items {
			if item.ImageURL != "" {
				urls = append(urls, item.ImageURL)
			}
		}
	}
	return urls
}

// prefixFromURL extracts "designs/{owner}/{timestamp}" from a stored
// asset URL regardless of which bucket host serves it.
func prefixFromURL(url string) (string, bool) {
	i := strings.Index(url, assetRoot)
	if i < 0 {
		return "", false
	}
	prefix, _, ok := splitKey(url[i:])
	if !ok {
		return "", false
	}
	return prefix, true
}

// splitKey breaks an object key "designs/{owner}/{ts}/{asset}" into its
// save prefix and the save timestamp encoded in it.
func splitKey(key string) (string, time.Time, bool) {
	parts := strings.SplitN(key, "/", 4)
	if len(parts) < 3 {
		return "", time.Time{}, false
	}
	ms, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	prefix := strings.Join(parts[:3], "/")
	return prefix, time.UnixMilli(ms), true
}
