package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/cache"
)

// Public read handlers. Responses are served through the tag cache: a slot
// stays fresh until a rebuild marks its tag stale, then the next request
// recomputes from the content store.

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	s.servePublishedList(w, r, aquacms.ContentTypeNews, cache.TagNewsList)
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	s.servePublishedDetail(w, r, aquacms.ContentTypeNews, cache.TagNewsDetail)
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	s.servePublishedList(w, r, aquacms.ContentTypeAchievement, cache.TagAchievementsList)
}

func (s *Server) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	s.servePublishedDetail(w, r, aquacms.ContentTypeAchievement, cache.TagAchievementsDetail)
}

func (s *Server) servePublishedList(w http.ResponseWriter, r *http.Request, contentType aquacms.ContentType, tag cache.Tag) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	key := fmt.Sprintf("list:%d", limit)
	value, err := s.tagCache.GetOrCompute(r.Context(), tag, key, func(ctx context.Context) (interface{}, error) {
		items, err := s.service.ListPublished(ctx, contentType, limit)
		if err != nil {
			return nil, err
		}
		return toContentResponseList(items), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, value)
}

func (s *Server) servePublishedDetail(w http.ResponseWriter, r *http.Request, contentType aquacms.ContentType, tag cache.Tag) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// Unparseable ids are indistinguishable from missing ones
		s.writeError(w, r, aquacms.ErrContentNotFound)
		return
	}

	value, err := s.tagCache.GetOrCompute(r.Context(), tag, id.String(), func(ctx context.Context) (interface{}, error) {
		item, err := s.service.GetPublishedContent(ctx, contentType, id)
		if err != nil {
			return nil, err
		}
		return toContentResponse(item), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, value)
}
