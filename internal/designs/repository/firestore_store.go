package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/verdara/verdara-backend/internal/designs/domain"
)

const designsCollection = "designs"

// FirestoreStore is the Firestore-backed DocStore for the designs
// collection.
type FirestoreStore struct {
	col *firestore.CollectionRef
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{col: client.Collection(designsCollection)}
}

func (s *FirestoreStore) Insert(ctx context.Context, d domain.Design) (string, error) {
	// createdAt carries the serverTimestamp tag, so the zero value is
	// replaced by the write-time server clock.
	d.CreatedAt = time.Time{}
	ref, _, err := s.col.Add(ctx, d)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, id string) (domain.Design, error) {
	snap, err := s.col.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Design{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Design{}, fmt.Errorf("get design %s: %w", id, err)
	}
	return decode(snap)
}

func (s *FirestoreStore) QueryOwner(ctx context.Context, ownerID string) ([]domain.Design, error) {
	it := s.col.Where("ownerId", "==", ownerID).Documents(ctx)
	defer it.Stop()

	var out []domain.Design
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		d, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *FirestoreStore) QueryPublicID(ctx context.Context, publicID string) (domain.Design, error) {
	snaps, err := s.col.Where("publicId", "==", publicID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return domain.Design{}, fmt.Errorf("query public id %s: %w", publicID, err)
	}
	if len(snaps) == 0 {
		return domain.Design{}, domain.ErrNotFound
	}
	return decode(snaps[0])
}

// PageOrdered pages newest-first. The cursor is the createdAt value of
// the last document of the previous page. A FailedPrecondition status
// means the query shape needs a composite index that has not been
// provisioned; that is surfaced as the typed ErrIndexMissing signal so
// the repository can dispatch to the fallback explicitly.
func (s *FirestoreStore) PageOrdered(ctx context.Context, cursor any, limit int) ([]domain.Design, any, error) {
	q := s.col.OrderBy("createdAt", firestore.Desc).Limit(limit)
	if cursor != nil {
		q = q.StartAfter(cursor)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		if status.Code(err) == codes.FailedPrecondition {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrIndexMissing, err)
		}
		return nil, nil, err
	}

	docs, err := decodeAll(snaps)
	if err != nil {
		return nil, nil, err
	}

	var next any
	if len(docs) > 0 {
		next = docs[len(docs)-1].CreatedAt
	}
	return docs, next, nil
}

// PageUnordered pages in document id order, which Firestore supports
// without any composite index. The cursor is the last document id.
func (s *FirestoreStore) PageUnordered(ctx context.Context, cursor any, limit int) ([]domain.Design, any, error) {
	q := s.col.OrderBy(firestore.DocumentID, firestore.Asc).Limit(limit)
	if cursor != nil {
		q = q.StartAfter(cursor)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, nil, err
	}

	docs, err := decodeAll(snaps)
	if err != nil {
		return nil, nil, err
	}

	var next any
	if len(snaps) > 0 {
		next = snaps[len(snaps)-1].Ref.ID
	}
	return docs, next, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete design %s: %w", id, err)
	}
	return nil
}

func decode(snap *firestore.DocumentSnapshot) (domain.Design, error) {
	var d domain.Design
	if err := snap.DataTo(&d); err != nil {
		return domain.Design{}, fmt.Errorf("decode design %s: %w", snap.Ref.ID, err)
	}
	d.ID = snap.Ref.ID
	return d, nil
}

func decodeAll(snaps []*firestore.DocumentSnapshot) ([]domain.Design, error) {
	out := make([]domain.Design, 0, len(snaps))
	for _, snap := range snaps {
		d, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
