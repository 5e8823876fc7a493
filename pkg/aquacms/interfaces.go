package aquacms

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for image storage backends.
type BlobStore interface {
	// Upload writes the blob under objectKey.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams writes the blob with additional parameters.
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download reads the blob back.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// PublicURL returns the publicly resolvable URL for objectKey.
	PublicURL(ctx context.Context, objectKey string) (string, error)

	// Delete removes the blob.
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored blob.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Repository defines the interface for content persistence.
//
// The store applies each call atomically; per-item writes are serialized by
// the store (last-writer-wins on concurrent updates).
type Repository interface {
	CreateContent(ctx context.Context, item *ContentItem) error
	GetContent(ctx context.Context, id uuid.UUID) (*ContentItem, error)
	UpdateContent(ctx context.Context, item *ContentItem) error
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// ListByStatus returns items of the given type and status ordered by
	// PublishedAt descending. Items without a PublishedAt sort last.
	ListByStatus(ctx context.Context, contentType ContentType, status Status, limit int) ([]*ContentItem, error)

	// ListContent returns items of the given type ordered by UpdatedAt
	// descending, optionally filtered by status.
	ListContent(ctx context.Context, contentType ContentType, filter StatusFilter, limit int) ([]*ContentItem, error)
}

// ObjectMeta contains metadata about a blob in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading a blob
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// Clock abstracts time for the publication engine so tests can pin
// PublishedAt values.
type Clock func() time.Time
