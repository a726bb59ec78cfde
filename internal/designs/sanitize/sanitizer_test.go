package sanitize

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdara/verdara-backend/internal/designs/blob"
	"github.com/verdara/verdara-backend/internal/designs/domain"
)

// countingStore is safe for the concurrent uploads the sanitizer issues.
type countingStore struct {
	mu         sync.Mutex
	calls      int
	data       map[string][]byte
	failSubstr string
}

func newCountingStore() *countingStore {
	return &countingStore{data: map[string][]byte{}}
}

func (s *countingStore) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failSubstr != "" && strings.Contains(path, s.failSubstr) {
		return "", errors.New("simulated store failure")
	}
	s.data[path] = data
	return "https://cdn.test/" + path, nil
}

func dataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func newTestSanitizer(store *countingStore) *Sanitizer {
	s := New(blob.NewUploader(store))
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestSanitize_PromotesAllImageFields(t *testing.T) {
	store := newCountingStore()
	s := newTestSanitizer(store)

	raw := domain.Design{
		OriginalImageURL: dataURL("original"),
		RenderImageURLs:  []string{dataURL("render-a"), dataURL("render-b")},
		PlanImageURL:     dataURL("plan"),
		CostEstimate: &domain.CostEstimate{
			Items: []domain.CostLineItem{
				{Name: "Japanese Maple", ImageURL: dataURL("item-0")},
				{Name: "Gravel", ImageURL: "https://cdn.test/existing.png"},
			},
		},
	}

	out, err := s.Sanitize(context.Background(), "user-1", raw)
	require.NoError(t, err)

	assert.Equal(t, 4, store.calls, "original + 2 renders + 1 line item")
	assert.True(t, strings.HasPrefix(out.OriginalImageURL, "https://"))
	assert.True(t, strings.HasPrefix(out.PlanImageURL, "https://"))
	for _, u := range out.RenderImageURLs {
		assert.True(t, strings.HasPrefix(u, "https://"))
	}
	assert.True(t, strings.HasPrefix(out.CostEstimate.Items[0].ImageURL, "https://"))
	assert.Equal(t, "https://cdn.test/existing.png", out.CostEstimate.Items[1].ImageURL)
	assert.False(t, out.HasInlineImages())

	// Caller's copy stays untouched.
	assert.True(t, strings.HasPrefix(raw.OriginalImageURL, "data:"))
	assert.True(t, strings.HasPrefix(raw.CostEstimate.Items[0].ImageURL, "data:"))
}

func TestSanitize_RenderOrderPreserved(t *testing.T) {
	store := newCountingStore()
	s := newTestSanitizer(store)

	const n = 8
	renders := make([]string, n)
	for i := range renders {
		renders[i] = dataURL(fmt.Sprintf("render-%d", i))
	}

	out, err := s.Sanitize(context.Background(), "user-1", domain.Design{RenderImageURLs: renders})
	require.NoError(t, err)
	require.Len(t, out.RenderImageURLs, n)

	for i, url := range out.RenderImageURLs {
		assert.Contains(t, url, fmt.Sprintf("render_%d.", i))
		path := strings.TrimPrefix(url, "https://cdn.test/")
		assert.Equal(t, []byte(fmt.Sprintf("render-%d", i)), store.data[path],
			"output slot %d must hold the upload of input image %d", i, i)
	}
}

func TestSanitize_AlreadyCleanIsNoOp(t *testing.T) {
	store := newCountingStore()
	s := newTestSanitizer(store)

	raw := domain.Design{
		OriginalImageURL: dataURL("original"),
		RenderImageURLs:  []string{dataURL("render")},
	}
	first, err := s.Sanitize(context.Background(), "user-1", raw)
	require.NoError(t, err)
	uploadsAfterFirst := store.calls

	second, err := s.Sanitize(context.Background(), "user-1", first)
	require.NoError(t, err)

	assert.Equal(t, uploadsAfterFirst, store.calls, "re-sanitizing a clean design must not upload")
	assert.Equal(t, first, second)
}

func TestSanitize_LineItemFailureIsBestEffort(t *testing.T) {
	store := newCountingStore()
	store.failSubstr = "item_1"
	s := newTestSanitizer(store)

	raw := domain.Design{
		RenderImageURLs: []string{dataURL("render")},
		CostEstimate: &domain.CostEstimate{
			Items: []domain.CostLineItem{
				{Name: "Lavender", ImageURL: dataURL("item-0")},
				{Name: "Bamboo", ImageURL: dataURL("item-1")},
			},
		},
	}

	out, err := s.Sanitize(context.Background(), "user-1", raw)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.CostEstimate.Items[0].ImageURL, "https://"))
	assert.Empty(t, out.CostEstimate.Items[1].ImageURL, "failed thumbnail is dropped, line survives")
	assert.Equal(t, "Bamboo", out.CostEstimate.Items[1].Name)
}

func TestSanitize_PrimaryImageFailureAborts(t *testing.T) {
	store := newCountingStore()
	store.failSubstr = "render_0"
	s := newTestSanitizer(store)

	_, err := s.Sanitize(context.Background(), "user-1", domain.Design{
		RenderImageURLs: []string{dataURL("render")},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSanitizationFailed)
}

func TestSanitize_UnresolvableBlobAborts(t *testing.T) {
	store := newCountingStore()
	s := newTestSanitizer(store)

	_, err := s.Sanitize(context.Background(), "user-1", domain.Design{
		OriginalImageURL: "blob:https://app.test/3f9a",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSanitizationFailed)
}
