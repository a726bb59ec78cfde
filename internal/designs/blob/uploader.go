package blob

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/verdara/verdara-backend/internal/designs/domain"
)

// Store is the blob storage boundary. Each path is unique per save (the
// timestamp component), so no overwrite semantics are assumed.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Uploader promotes inline-encoded images to durable blob storage URLs.
type Uploader struct {
	store   Store
	limiter *rate.Limiter
}

// NewUploader wraps a blob store. Writes are rate limited because a single
// save can carry dozens of line-item thumbnails.
func NewUploader(store Store) *Uploader {
	return &Uploader{
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Upload returns a durable URL for the given image value.
// A value that is already a remote URL is returned unchanged with no
// network call, which makes re-sanitizing a saved design a no-op.
func (u *Uploader) Upload(ctx context.Context, value, path string) (string, error) {
	if domain.IsRemoteURL(value) {
		return value, nil
	}

	data, contentType, err := decodeDataURL(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, path, err)
	}

	if err := u.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, path, err)
	}

	url, err := u.store.Put(ctx, path, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, path, err)
	}
	return url, nil
}

// decodeDataURL extracts the payload of a data URL like
// "data:image/png;base64,iVBOR...". Browser blob: references cannot be
// resolved server side and are rejected.
func decodeDataURL(value string) ([]byte, string, error) {
	if strings.HasPrefix(value, "blob:") {
		return nil, "", fmt.Errorf("ephemeral blob reference cannot be resolved server side")
	}
	if !strings.HasPrefix(value, "data:") {
		return nil, "", fmt.Errorf("not an inline-encoded image")
	}

	meta, payload, ok := strings.Cut(value[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data url")
	}

	contentType := "application/octet-stream"
	if mime, _, _ := strings.Cut(meta, ";"); mime != "" {
		contentType = mime
	}

	var data []byte
	var err error
	if strings.Contains(meta, "base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		data = []byte(payload)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode payload: %w", err)
	}
	return data, contentType, nil
}

// Ext guesses a file extension for an image value, used to build asset
// paths. Remote URLs keep whatever extension they carry downstream, so
// only the data URL mime matters here.
func Ext(value string) string {
	if !strings.HasPrefix(value, "data:") {
		return "png"
	}
	meta, _, _ := strings.Cut(value[len("data:"):], ",")
	mime, _, _ := strings.Cut(meta, ";")
	if _, subtype, ok := strings.Cut(mime, "/"); ok && subtype != "" {
		if subtype == "jpeg" {
			return "jpg"
		}
		return subtype
	}
	return "png"
}
