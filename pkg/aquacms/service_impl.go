package aquacms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/cache"
)

// service implements the Service interface
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	invalidator    cache.Invalidator
	clock          Clock
	logger         *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore adds a blob storage backend
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
	}
}

// WithDefaultStorageBackend selects the backend used for image uploads.
func WithDefaultStorageBackend(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithInvalidator sets the cache invalidator behind the rebuild trigger.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *service) {
		s.invalidator = inv
	}
}

// WithClock overrides the time source used for PublishedAt assignment.
func WithClock(clock Clock) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithLogger sets the structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores: make(map[string]BlobStore),
		clock:      time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.defaultBackend == "" && len(s.blobStores) == 1 {
		for name := range s.blobStores {
			s.defaultBackend = name
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*ContentItem, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidContentType
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, NewValidationError("body", "must not be empty")
	}
	if err := validateImagePair(req.Image); err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	item := &ContentItem{
		ID:        uuid.New(),
		Type:      req.Type,
		Title:     title,
		Body:      body,
		Status:    status,
		Author:    req.Author,
		Category:  strings.TrimSpace(req.Category),
		Client:    strings.TrimSpace(req.Client),
		URL:       strings.TrimSpace(req.URL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Image != nil && req.Image.Key != "" {
		item.ImageURL = req.Image.URL
		item.ImageKey = req.Image.Key
	}
	if status == StatusPublished {
		publishedAt := now
		item.PublishedAt = &publishedAt
	}

	if err := s.repository.CreateContent(ctx, item); err != nil {
		return nil, &ContentError{ContentID: item.ID, Op: "create", Err: err}
	}

	s.logger.Info("content created", "id", item.ID, "type", item.Type, "status", item.Status)
	return item, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*ContentItem, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) GetPublishedContent(ctx context.Context, contentType ContentType, id uuid.UUID) (*ContentItem, error) {
	item, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	// Drafts and wrong-typed ids render as not found so their existence
	// does not leak to public readers.
	if item.Type != contentType || !item.Published() || item.PublishedAt == nil {
		return nil, ErrContentNotFound
	}
	return item, nil
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*ContentItem, error) {
	item, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewValidationError("title", "must not be empty")
		}
		item.Title = title
	}
	if req.Body != nil {
		body := strings.TrimSpace(*req.Body)
		if body == "" {
			return nil, NewValidationError("body", "must not be empty")
		}
		item.Body = body
	}
	if req.Image != nil {
		if err := validateImagePair(req.Image); err != nil {
			return nil, err
		}
		item.ImageURL = req.Image.URL
		item.ImageKey = req.Image.Key
	} else if req.RemoveImage {
		item.ImageURL = ""
		item.ImageKey = ""
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.Client != nil {
		item.Client = strings.TrimSpace(*req.Client)
	}
	if req.URL != nil {
		item.URL = strings.TrimSpace(*req.URL)
	}

	if req.Status != nil && *req.Status != item.Status {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		item.Status = *req.Status
		// First publication stamps PublishedAt; re-publishing and
		// unpublishing both leave the original timestamp in place.
		if *req.Status == StatusPublished && item.PublishedAt == nil {
			publishedAt := s.clock().UTC()
			item.PublishedAt = &publishedAt
		}
	}

	item.UpdatedAt = s.clock().UTC()

	if err := s.repository.UpdateContent(ctx, item); err != nil {
		return nil, &ContentError{ContentID: item.ID, Op: "update", Err: err}
	}

	s.logger.Info("content updated", "id", item.ID, "status", item.Status)
	return item, nil
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	item, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteContent(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}

	// Blob cleanup is best effort: the item is already gone and an
	// unreferenced blob is a non-fatal leak.
	if item.HasImage() {
		if err := s.DeleteImage(ctx, item.ImageKey); err != nil {
			s.logger.Warn("image cleanup failed after delete", "id", id, "key", item.ImageKey, "err", err)
		}
	}

	s.logger.Info("content deleted", "id", id, "type", item.Type)
	return nil
}

func (s *service) ListPublished(ctx context.Context, contentType ContentType, limit int) ([]*ContentItem, error) {
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}

	items, err := s.repository.ListByStatus(ctx, contentType, StatusPublished, limit)
	if err != nil {
		return nil, err
	}

	// A published item always carries a PublishedAt by construction; the
	// filter guards against malformed rows written outside the engine.
	result := make([]*ContentItem, 0, len(items))
	for _, item := range items {
		if item.Status == StatusPublished && item.PublishedAt != nil {
			result = append(result, item)
		}
	}

	// Ties break on creation time, then id, so repeated reads of the same
	// data always return the same order.
	slices.SortStableFunc(result, func(a, b *ContentItem) int {
		if c := b.PublishedAt.Compare(*a.PublishedAt); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return result, nil
}

func (s *service) ListContent(ctx context.Context, req ListContentRequest) ([]*ContentItem, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidContentType
	}

	filter := req.Status
	if filter == "" {
		filter = StatusFilterAll
	}

	return s.repository.ListContent(ctx, req.Type, filter, req.Limit)
}

// Image operations

func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*ImageRef, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidContentType
	}
	if req.Reader == nil {
		return nil, NewValidationError("file", "must not be empty")
	}

	store, err := s.GetBackend(s.defaultBackend)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("%s/%d-%s", imagePrefix(req.Type), s.clock().UnixMilli(), sanitizeFileName(req.FileName))

	if err := store.UploadWithParams(ctx, req.Reader, UploadParams{
		ObjectKey: objectKey,
		MimeType:  req.ContentType,
	}); err != nil {
		return nil, &StorageError{Backend: s.defaultBackend, Key: objectKey, Op: "upload", Err: err}
	}

	url, err := store.PublicURL(ctx, objectKey)
	if err != nil {
		return nil, &StorageError{Backend: s.defaultBackend, Key: objectKey, Op: "public_url", Err: err}
	}

	s.logger.Info("image uploaded", "key", objectKey, "backend", s.defaultBackend)
	return &ImageRef{URL: url, Key: objectKey}, nil
}

func (s *service) DeleteImage(ctx context.Context, objectKey string) error {
	store, err := s.GetBackend(s.defaultBackend)
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, objectKey); err != nil {
		return &StorageError{Backend: s.defaultBackend, Key: objectKey, Op: "delete", Err: err}
	}
	return nil
}

// Rebuild trigger

func (s *service) TriggerRebuild(ctx context.Context) (*RebuildResult, error) {
	if s.invalidator == nil {
		return nil, &RebuildError{Err: errors.New("no invalidator configured")}
	}

	tags := cache.AllTags()
	if err := s.invalidator.Invalidate(ctx, tags...); err != nil {
		return nil, &RebuildError{Err: err}
	}

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}

	s.logger.Info("rebuild triggered", "tags", names)
	return &RebuildResult{RevalidatedTags: names, Now: s.clock().UTC()}, nil
}

// Storage backend operations

func (s *service) RegisterBackend(name string, backend BlobStore) {
	if s.blobStores == nil {
		s.blobStores = make(map[string]BlobStore)
	}
	s.blobStores[name] = backend
	if s.defaultBackend == "" {
		s.defaultBackend = name
	}
}

func (s *service) GetBackend(name string) (BlobStore, error) {
	store, ok := s.blobStores[name]
	if !ok {
		return nil, ErrStorageBackendNotFound
	}
	return store, nil
}

// Helpers

func validateImagePair(ref *ImageRef) error {
	if ref == nil {
		return nil
	}
	if (ref.URL == "") != (ref.Key == "") {
		return NewValidationError("image", "imageUrl and imageKey must both be present or both absent")
	}
	return nil
}

func imagePrefix(contentType ContentType) string {
	if contentType == ContentTypeAchievement {
		return "achievement-images"
	}
	return "news-images"
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
