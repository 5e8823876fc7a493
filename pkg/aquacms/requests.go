package aquacms

import (
	"io"

	"github.com/google/uuid"
)

// Request/Response DTOs

// CreateContentRequest contains parameters for creating a content item.
//
// Author is always taken from the authenticated identity by the caller,
// never from client-supplied form data.
type CreateContentRequest struct {
	Type     ContentType
	Title    string
	Body     string
	Status   Status // defaults to StatusDraft when empty
	Author   string
	Image    *ImageRef
	Category string
	Client   string
	URL      string
}

// UpdateContentRequest contains parameters for partially updating a content
// item. Nil pointer fields are left untouched; this enumerates exactly which
// fields are editable so no unvalidated data reaches the store.
type UpdateContentRequest struct {
	ID          uuid.UUID
	Title       *string
	Body        *string
	Image       *ImageRef // replaces the image pair
	RemoveImage bool      // clears the image pair; ignored when Image is set
	Category    *string
	Client      *string
	URL         *string
	Status      *Status
}

// ListContentRequest contains parameters for the editor-facing list.
type ListContentRequest struct {
	Type   ContentType
	Status StatusFilter // defaults to StatusFilterAll when empty
	Limit  int          // 0 means no limit
}

// UploadImageRequest contains parameters for uploading an image blob.
type UploadImageRequest struct {
	Type        ContentType
	FileName    string
	ContentType string // MIME type
	Reader      io.Reader
}
