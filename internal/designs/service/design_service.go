package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdara/verdara-backend/internal/designs/domain"
)

const (
	galleryCacheGenKey = "designs:public:gen"
	galleryCacheTTL    = 60 * time.Second
)

// DesignStore is what the service needs from the repository.
type DesignStore interface {
	Save(ctx context.Context, ownerID string, d domain.Design, visibility *bool) (string, string, error)
	GetByID(ctx context.Context, id string) (domain.Design, error)
	GetByPublicID(ctx context.Context, publicID string) (domain.Design, error)
	ListOwnedBy(ctx context.Context, ownerID string) ([]domain.Design, error)
	ListPublic(ctx context.Context, count int) ([]domain.Design, error)
	Delete(ctx context.Context, id string) error
}

// DesignService is the caller-facing API of the persistence subsystem.
// Gallery reads go through a short-TTL Redis cache; cache failures are
// soft and fall through to the store.
type DesignService struct {
	repo  DesignStore
	cache *redis.Client
}

// NewDesignService creates the service. cache may be nil, which disables
// gallery caching.
func NewDesignService(repo DesignStore, cache *redis.Client) *DesignService {
	return &DesignService{repo: repo, cache: cache}
}

type SaveResult struct {
	ID       string `json:"id"`
	PublicID string `json:"publicId"`
}

func (s *DesignService) SaveDesign(ctx context.Context, ownerID string, d domain.Design, isPublic *bool) (SaveResult, error) {
	id, publicID, err := s.repo.Save(ctx, ownerID, d, isPublic)
	if err != nil {
		return SaveResult{}, err
	}
	s.invalidateGallery(ctx)
	return SaveResult{ID: id, PublicID: publicID}, nil
}

func (s *DesignService) GetUserDesigns(ctx context.Context, ownerID string) ([]domain.Design, error) {
	return s.repo.ListOwnedBy(ctx, ownerID)
}

// GetPublicDesigns returns up to count public designs, newest first.
// Gallery failures are invisible to callers: any store failure produces
// an empty (non-nil) slice and the UI shows its own placeholder content.
func (s *DesignService) GetPublicDesigns(ctx context.Context, count int) []domain.Design {
	if cached, ok := s.galleryFromCache(ctx, count); ok {
		return cached
	}

	designs, err := s.repo.ListPublic(ctx, count)
	if err != nil {
		log.Printf("[designs] public gallery unavailable, serving empty list: %v", err)
		return []domain.Design{}
	}
	if designs == nil {
		designs = []domain.Design{}
	}

	s.galleryToCache(ctx, count, designs)
	return designs
}

func (s *DesignService) GetDesignByID(ctx context.Context, id string) (*domain.Design, error) {
	d, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DesignService) GetDesignByPublicID(ctx context.Context, publicID string) (*domain.Design, error) {
	d, err := s.repo.GetByPublicID(ctx, publicID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DesignService) DeleteDesign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateGallery(ctx)
	return nil
}

// Cache entries are keyed by a generation counter plus the requested
// count. Invalidation bumps the generation, so stale entries just age
// out through their TTL.
func (s *DesignService) galleryKey(ctx context.Context, count int) string {
	gen, err := s.cache.Get(ctx, galleryCacheGenKey).Int64()
	if err != nil && err != redis.Nil {
		return ""
	}
	return fmt.Sprintf("designs:public:%d:%d", gen, count)
}

func (s *DesignService) galleryFromCache(ctx context.Context, count int) ([]domain.Design, bool) {
	if s.cache == nil {
		return nil, false
	}
	key := s.galleryKey(ctx, count)
	if key == "" {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var designs []domain.Design
	if err := json.Unmarshal(data, &designs); err != nil {
		return nil, false
	}
	return designs, true
}

func (s *DesignService) galleryToCache(ctx context.Context, count int, designs []domain.Design) {
	if s.cache == nil {
		return
	}
	key := s.galleryKey(ctx, count)
	if key == "" {
		return
	}

	data, err := json.Marshal(designs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, galleryCacheTTL).Err(); err != nil {
		log.Printf("[designs] gallery cache write failed: %v", err)
	}
}

func (s *DesignService) invalidateGallery(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, galleryCacheGenKey).Err(); err != nil {
		log.Printf("[designs] gallery cache invalidation failed: %v", err)
	}
}
