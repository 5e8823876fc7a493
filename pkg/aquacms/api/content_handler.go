package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
)

const maxImageUploadBytes = 10 << 20

// ContentResponse is the response body for a content item
type ContentResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Author      string     `json:"author"`
	ImageURL    string     `json:"image_url,omitempty"`
	ImageKey    string     `json:"image_key,omitempty"`
	Category    string     `json:"category,omitempty"`
	Client      string     `json:"client,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toContentResponse(item *aquacms.ContentItem) ContentResponse {
	return ContentResponse{
		ID:          item.ID.String(),
		Type:        string(item.Type),
		Title:       item.Title,
		Body:        item.Body,
		Status:      string(item.Status),
		PublishedAt: item.PublishedAt,
		Author:      item.Author,
		ImageURL:    item.ImageURL,
		ImageKey:    item.ImageKey,
		Category:    item.Category,
		Client:      item.Client,
		URL:         item.URL,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toContentResponseList(items []*aquacms.ContentItem) []ContentResponse {
	resp := make([]ContentResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toContentResponse(item))
	}
	return resp
}

// CreateContentRequest is the request body for creating a content item.
// The author is never accepted from the body; it is stamped from the
// authenticated session.
type CreateContentRequest struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Status   string            `json:"status,omitempty"`
	Image    *aquacms.ImageRef `json:"image,omitempty"`
	Category string            `json:"category,omitempty"`
	Client   string            `json:"client,omitempty"`
	URL      string            `json:"url,omitempty"`
}

// CreateContent creates a new content item
func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	identity, err := s.authService.CurrentUser(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := s.service.CreateContent(r.Context(), aquacms.CreateContentRequest{
		Type:     aquacms.ContentType(req.Type),
		Title:    req.Title,
		Body:     req.Body,
		Status:   aquacms.Status(req.Status),
		Author:   identity.LoginID,
		Image:    req.Image,
		Category: req.Category,
		Client:   req.Client,
		URL:      req.URL,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toContentResponse(item))
}

// GetContent retrieves a content item by ID, any status
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}

	item, err := s.service.GetContent(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponse(item))
}

// UpdateContentRequest is the request body for partially updating a content
// item. Absent fields are left untouched.
type UpdateContentRequest struct {
	Title       *string           `json:"title,omitempty"`
	Body        *string           `json:"body,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Image       *aquacms.ImageRef `json:"image,omitempty"`
	RemoveImage bool              `json:"remove_image,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Client      *string           `json:"client,omitempty"`
	URL         *string           `json:"url,omitempty"`
}

// UpdateContent applies a partial update to a content item
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := aquacms.UpdateContentRequest{
		ID:          id,
		Title:       req.Title,
		Body:        req.Body,
		Image:       req.Image,
		RemoveImage: req.RemoveImage,
		Category:    req.Category,
		Client:      req.Client,
		URL:         req.URL,
	}
	if req.Status != nil {
		status := aquacms.Status(*req.Status)
		update.Status = &status
	}

	item, err := s.service.UpdateContent(r.Context(), update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponse(item))
}

// DeleteContent deletes a content item by ID
func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}

	if err := s.service.DeleteContent(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContents lists content items for editors, drafts included
func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	contentType := aquacms.ContentType(r.URL.Query().Get("type"))
	if !contentType.Valid() {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	filter := aquacms.StatusFilter(r.URL.Query().Get("status"))
	if filter == "" {
		filter = aquacms.StatusFilterAll
	}

	items, err := s.service.ListContent(r.Context(), aquacms.ListContentRequest{
		Type:   contentType,
		Status: filter,
		Limit:  limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponseList(items))
}

// ImageResponse is the response body for an uploaded image
type ImageResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadImage accepts a multipart form with a "file" part and a "type"
// field naming the content type the image belongs to
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ref, err := s.service.UploadImage(r.Context(), aquacms.UploadImageRequest{
		Type:        aquacms.ContentType(r.FormValue("type")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ImageResponse{URL: ref.URL, Key: ref.Key})
}

// DeleteImage deletes an uploaded image by its object key
func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "Missing object key", http.StatusBadRequest)
		return
	}

	if err := s.service.DeleteImage(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
