package sanitize

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdara/verdara-backend/internal/designs/blob"
	"github.com/verdara/verdara-backend/internal/designs/domain"
)

// Sanitizer turns a raw design payload into a storage-safe one: every
// inline-encoded image is replaced with a blob storage URL before the
// document reaches the store, which keeps the serialized document well
// under the store's per-document ceiling.
type Sanitizer struct {
	uploader *blob.Uploader
	now      func() time.Time
}

func New(uploader *blob.Uploader) *Sanitizer {
	return &Sanitizer{uploader: uploader, now: time.Now}
}

// Sanitize promotes every image field of the design to a remote URL.
// Original, render, and plan images are primary: any failure there aborts
// the whole sanitization. Cost-estimate line-item images are best effort:
// a failed upload drops only that line's image.
func (s *Sanitizer) Sanitize(ctx context.Context, ownerID string, d domain.Design) (domain.Design, error) {
	base := fmt.Sprintf("designs/%s/%d", ownerID, s.now().UnixMilli())
	out := d

	if d.OriginalImageURL != "" {
		url, err := s.uploader.Upload(ctx, d.OriginalImageURL, fmt.Sprintf("%s/original.%s", base, blob.Ext(d.OriginalImageURL)))
		if err != nil {
			return domain.Design{}, fmt.Errorf("%w: original image: %v", domain.ErrSanitizationFailed, err)
		}
		out.OriginalImageURL = url
	}

	// Render uploads run concurrently but results stay index-tagged:
	// position i of the output must correspond to input image i, because
	// downstream views key off render order.
	urls := make([]string, len(d.RenderImageURLs))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range d.RenderImageURLs {
		g.Go(func() error {
			url, err := s.uploader.Upload(gctx, img, fmt.Sprintf("%s/render_%d.%s", base, i, blob.Ext(img)))
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Design{}, fmt.Errorf("%w: render image: %v", domain.ErrSanitizationFailed, err)
	}
	out.RenderImageURLs = urls

	if d.PlanImageURL != "" {
		url, err := s.uploader.Upload(ctx, d.PlanImageURL, fmt.Sprintf("%s/plan.%s", base, blob.Ext(d.PlanImageURL)))
		if err != nil {
			return domain.Design{}, fmt.Errorf("%w: plan image: %v", domain.ErrSanitizationFailed, err)
		}
		out.PlanImageURL = url
	}

	if d.CostEstimate != nil {
		estimate := *d.CostEstimate
		estimate.Items = make([]domain.CostLineItem, len(d.CostEstimate.Items))
		copy(estimate.Items, d.CostEstimate.Items)

		var wg sync.WaitGroup
		for i := range estimate.Items {
			if !domain.IsInlineImage(estimate.Items[i].ImageURL) {
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				img := estimate.Items[i].ImageURL
				url, err := s.uploader.Upload(ctx, img, fmt.Sprintf("%s/item_%d.%s", base, i, blob.Ext(img)))
				if err != nil {
					// Pricing text matters more than thumbnails: drop
					// the image, keep the line.
					log.Printf("[sanitize] line item %d image upload failed, dropping image: %v", i, err)
					estimate.Items[i].ImageURL = ""
					return
				}
				estimate.Items[i].ImageURL = url
			}(i)
		}
		wg.Wait()
		out.CostEstimate = &estimate
	}

	// Safety net against a missed promotion path, not a substitute for
	// the steps above.
	raw, err := json.Marshal(out)
	if err != nil {
		return domain.Design{}, fmt.Errorf("%w: serialize check: %v", domain.ErrSanitizationFailed, err)
	}
	if strings.Contains(string(raw), `"data:`) || strings.Contains(string(raw), `"blob:`) {
		return domain.Design{}, fmt.Errorf("%w: inline image marker survived sanitization", domain.ErrSanitizationFailed)
	}

	return out, nil
}
