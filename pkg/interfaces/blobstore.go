package interfaces

import (
	"context"
	"io"
)

// BlobUpload describes a binary payload handed to a BlobStore.
type BlobUpload struct {
	// Name is the object name hint; stores may prefix or rewrite it.
	Name string
	// ContentType is the sniffed MIME type of the payload.
	ContentType string
	// Size is the payload length in bytes when known, zero otherwise.
	Size int64
	// Body streams the payload. The store consumes it fully on Upload.
	Body io.Reader
}

// BlobStore persists binary assets and returns publicly resolvable URLs.
// Image uploads flow through this contract; there is no local fallback path
// for blobs, unlike text content.
type BlobStore interface {
	Upload(ctx context.Context, upload BlobUpload) (string, error)
	Delete(ctx context.Context, url string) error
}
