package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/types"
)

// handleListCategories returns GET /api/categories?type=...
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categoryType := r.URL.Query().Get("type")
	if categoryType == "" {
		s.errorResponse(w, http.StatusBadRequest, "type query parameter is required")
		return
	}
	if s.deps.Categories == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "category lookup is not configured")
		return
	}

	cats, err := s.deps.Categories.List(r.Context(), categoryType)
	if err != nil {
		s.logger.Error("failed to list categories", zap.String("type", categoryType), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	if cats == nil {
		cats = []types.Category{}
	}
	s.jsonResponse(w, http.StatusOK, types.CategoriesResponse{Categories: cats})
}
