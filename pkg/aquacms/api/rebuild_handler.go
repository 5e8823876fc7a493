package api

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// RevalidateResponse is the response body for a rebuild trigger
type RevalidateResponse struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	RevalidatedTags []string  `json:"revalidated_tags"`
	Now             time.Time `json:"now"`
}

// handleRevalidate invalidates every public cache tag. The call is
// idempotent; repeating it is harmless.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.TriggerRebuild(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("rebuild triggered", "tags", result.RevalidatedTags)

	render.JSON(w, r, RevalidateResponse{
		Success:         true,
		Message:         "Revalidation completed",
		RevalidatedTags: result.RevalidatedTags,
		Now:             result.Now,
	})
}

// handleRevalidateUsage documents the trigger without side effects
func (s *Server) handleRevalidateUsage(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"message": "Use POST with an editor session token to trigger revalidation",
	})
}
