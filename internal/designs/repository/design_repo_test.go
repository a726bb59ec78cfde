package repository

import (
	"context"
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
	"github.com/verdara/verdara-backend/internal/designs/sanitize"
)

// fakeDocStore keeps documents in insertion order and pages with plain
// integer offsets as its opaque cursors.
type fakeDocStore struct {
	docs   []domain.Design
	nextID int

	orderedErr      error          // returned by every PageOrdered call
	orderedErrAfter int            // fail PageOrdered after this many good pages; -1 disables
	orderedPageHook func(page int) // runs after each good ordered page is served
	orderedPages    int
	unorderedPages  int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{orderedErrAfter: -1}
}

var seedBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// add stores a document with a synthetic id and a strictly increasing
// createdAt, mirroring the server timestamp the real store assigns.
func (f *fakeDocStore) add(d domain.Design) string {
	f.nextID++
	d.ID = fmt.Sprintf("doc-%d", f.nextID)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = seedBase.Add(time.Duration(f.nextID) * time.Minute)
	}
	f.docs = append(f.docs, d)
	return d.ID
}

func (f *fakeDocStore) Insert(_ context.Context, d domain.Design) (string, error) {
	return f.add(d), nil
}

func (f *fakeDocStore) GetByID(_ context.Context, id string) (domain.Design, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Design{}, domain.ErrNotFound
}

func (f *fakeDocStore) QueryOwner(_ context.Context, ownerID string) ([]domain.Design, error) {
	var out []domain.Design
	for _, d := range f.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocStore) QueryPublicID(_ context.Context, publicID string) (domain.Design, error) {
	for _, d := range f.docs {
		if d.PublicID == publicID {
			return d, nil
		}
	}
	return domain.Design{}, domain.ErrNotFound
}

func (f *fakeDocStore) PageOrdered(ctx context.Context, cursor any, limit int) ([]domain.Design, any, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if f.orderedErr != nil {
		return nil, nil, f.orderedErr
	}
	if f.orderedErrAfter >= 0 && f.orderedPages >= f.orderedErrAfter {
		return nil, nil, errors.New("ordered page fetch failed")
	}
	f.orderedPages++
	if f.orderedPageHook != nil {
		defer f.orderedPageHook(f.orderedPages)
	}

	sorted := make([]domain.Design, len(f.docs))
	copy(sorted, f.docs)
	sortByCreatedDesc(sorted)
	return f.page(sorted, cursor, limit)
}

func (f *fakeDocStore) PageUnordered(_ context.Context, cursor any, limit int) ([]domain.Design, any, error) {
	f.unorderedPages++
	return f.page(f.docs, cursor, limit)
}

func (f *fakeDocStore) page(docs []domain.Design, cursor any, limit int) ([]domain.Design, any, error) {
	off := 0
	if cursor != nil {
		off = cursor.(int)
	}
	if off > len(docs) {
		off = len(docs)
	}
	end := off + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[off:end], end, nil
}

func (f *fakeDocStore) Delete(_ context.Context, id string) error {
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memBlob struct {
	mu    sync.Mutex
	calls int
}

func (m *memBlob) Put(_ context.Context, path string, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return "https://cdn.test/" + path, nil
}

func newTestRepo(store *fakeDocStore) (*DesignRepository, *memBlob) {
	blobStore := &memBlob{}
	return NewDesignRepository(store, sanitize.New(blob.NewUploader(blobStore))), blobStore
}

func boolPtr(b bool) *bool { return &b }

func publicDesign(mutate ...func(*domain.Design)) domain.Design {
	d := domain.Design{
		OwnerID:          "owner-1",
		OriginalImageURL: "https://cdn.test/original.png",
		RenderImageURLs:  []string{"https://cdn.test/render_0.png"},
	}
	for _, m := range mutate {
		m(&d)
	}
	return d
}

func TestSave_AssignsPublicID(t *testing.T) {
	store := newFakeDocStore()
	repo, blobStore := newTestRepo(store)

	id, publicID, err := repo.Save(context.Background(), "owner-1", publicDesign(), nil)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, publicID, 6)
	for _, c := range publicID {
		assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
	}
	assert.Equal(t, 0, blobStore.calls, "clean payload must skip sanitization")

	saved, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", saved.OwnerID)
	assert.Equal(t, publicID, saved.PublicID)
}

func TestSave_SanitizesInlinePayload(t *testing.T) {
	store := newFakeDocStore()
	repo, blobStore := newTestRepo(store)

	d := publicDesign(func(d *domain.Design) {
		d.RenderImageURLs = []string{"data:image/png;base64,aGVsbG8="}
	})

	id, _, err := repo.Save(context.Background(), "owner-1", d, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, blobStore.calls)

	saved, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, saved.RenderImageURLs, 1)
	assert.True(t, strings.HasPrefix(saved.RenderImageURLs[0], "https://"))
}

func TestSave_VisibilityOverride(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	id, _, err := repo.Save(context.Background(), "owner-1", publicDesign(), boolPtr(false))
	require.NoError(t, err)
	saved, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, saved.IsPublic)
	assert.False(t, *saved.IsPublic)

	id, _, err = repo.Save(context.Background(), "owner-1", publicDesign(), nil)
	require.NoError(t, err)
	saved, err = store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, saved.IsPublic, "absent override leaves visibility unset")
}

func TestSave_RequiresOwner(t *testing.T) {
	repo, _ := newTestRepo(newFakeDocStore())

	_, _, err := repo.Save(context.Background(), "", publicDesign(), nil)

	assert.Error(t, err)
}

func TestGetByPublicID(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	_, publicID, err := repo.Save(context.Background(), "owner-1", publicDesign(), nil)
	require.NoError(t, err)

	got, err := repo.GetByPublicID(context.Background(), publicID)
	require.NoError(t, err)
	assert.Equal(t, publicID, got.PublicID)

	_, err = repo.GetByPublicID(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOwnedBy_NewestFirst(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	store.add(publicDesign())
	store.add(publicDesign(func(d *domain.Design) { d.OwnerID = "owner-2" }))
	store.add(publicDesign())

	got, err := repo.ListOwnedBy(context.Background(), "owner-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}

func TestListPublic_FiltersVisibilityAndCompleteness(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	unset := store.add(publicDesign())
	store.add(publicDesign(func(d *domain.Design) { d.IsPublic = boolPtr(false) }))
	explicit := store.add(publicDesign(func(d *domain.Design) { d.IsPublic = boolPtr(true) }))
	store.add(publicDesign(func(d *domain.Design) { d.RenderImageURLs = nil }))

	got, err := repo.ListPublic(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.Contains(t, ids, unset, "unset visibility defaults to public")
	assert.Contains(t, ids, explicit)
}

func TestListPublic_OrderedNewestFirst(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 5; i++ {
		store.add(publicDesign())
	}

	got, err := repo.ListPublic(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt), "position %d out of order", i)
	}
	assert.Zero(t, store.unorderedPages)
}

func TestListPublic_TruncatesToCount(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 30; i++ {
		store.add(publicDesign())
	}

	got, err := repo.ListPublic(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "doc-30", got[0].ID, "newest design leads the page")
}

func TestListPublic_PagesWholeCollection(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 250; i++ {
		store.add(publicDesign())
	}

	got, err := repo.ListPublic(context.Background(), 1000)

	require.NoError(t, err)
	assert.Len(t, got, 250, "a fetch-all request must span every page")
	assert.Equal(t, 3, store.orderedPages)
}

func TestListPublic_IndexMissingFallsBackUnordered(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 5; i++ {
		store.add(publicDesign())
	}
	store.orderedErr = fmt.Errorf("query rejected: %w", domain.ErrIndexMissing)

	got, err := repo.ListPublic(context.Background(), 10)

	require.NoError(t, err, "index fallback must not surface an error")
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt), "fallback must sort client side")
	}
	assert.GreaterOrEqual(t, store.unorderedPages, 1)
}

func TestListPublic_PartialResultsOnMidLoopFailure(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 150; i++ {
		store.add(publicDesign())
	}
	store.orderedErrAfter = 1 // first page succeeds, second fails

	got, err := repo.ListPublic(context.Background(), 1000)

	require.NoError(t, err, "accumulated designs are served despite the failure")
	assert.Len(t, got, 100)
}

func TestListPublic_CallerCancellationDiscardsPartials(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)

	for i := 0; i < 150; i++ {
		store.add(publicDesign())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.orderedPageHook = func(page int) {
		if page == 1 {
			cancel()
		}
	}

	got, err := repo.ListPublic(ctx, 1000)

	require.Error(t, err, "a cancelled caller must not receive a half-paginated gallery")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
}

func TestListPublic_TotalFailureIsStoreUnreachable(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)
	store.orderedErr = errors.New("deadline exceeded")

	_, err := repo.ListPublic(context.Background(), 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnreachable)
}

func TestSaveThenListPublic(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)
	ctx := context.Background()

	_, visibleID, err := repo.Save(ctx, "owner-1", publicDesign(), nil)
	require.NoError(t, err)
	_, hiddenID, err := repo.Save(ctx, "owner-1", publicDesign(), boolPtr(false))
	require.NoError(t, err)

	got, err := repo.ListPublic(ctx, 10)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, visibleID, got[0].PublicID)

	hidden, err := repo.GetByPublicID(ctx, hiddenID)
	require.NoError(t, err, "private designs stay reachable by public id")
	assert.False(t, *hidden.IsPublic)
}

func TestDelete(t *testing.T) {
	store := newFakeDocStore()
	repo, _ := newTestRepo(store)
	ctx := context.Background()

	id, _, err := repo.Save(ctx, "owner-1", publicDesign(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
