package aquacms

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the aqua-cms library: the
// publication engine, image storage, and the rebuild trigger.
type Service interface {
	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*ContentItem, error)
	GetContent(ctx context.Context, id uuid.UUID) (*ContentItem, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*ContentItem, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContent(ctx context.Context, req ListContentRequest) ([]*ContentItem, error)

	// Public read contract. These are the only query paths the public
	// render surface may use: drafts are invisible, missing and draft ids
	// are indistinguishable.
	GetPublishedContent(ctx context.Context, contentType ContentType, id uuid.UUID) (*ContentItem, error)
	ListPublished(ctx context.Context, contentType ContentType, limit int) ([]*ContentItem, error)

	// Image operations
	UploadImage(ctx context.Context, req UploadImageRequest) (*ImageRef, error)
	DeleteImage(ctx context.Context, objectKey string) error

	// Rebuild trigger
	TriggerRebuild(ctx context.Context) (*RebuildResult, error)

	// Storage backend operations
	RegisterBackend(name string, backend BlobStore)
	GetBackend(name string) (BlobStore, error)
}
