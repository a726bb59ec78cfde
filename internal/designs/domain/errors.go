package domain

import "errors"

var (
	ErrNotFound           = errors.New("design not found")
	ErrUploadFailed       = errors.New("image upload failed")
	ErrSanitizationFailed = errors.New("design sanitization failed")

	// ErrIndexMissing signals that the store rejected an ordered query
	// because the required composite index has not been provisioned.
	// Handled internally by the gallery fallback path, never surfaced.
	ErrIndexMissing = errors.New("composite index missing")

	ErrStoreUnreachable = errors.New("document store unreachable")
)
