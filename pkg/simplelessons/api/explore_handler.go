package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// ExploreHandler serves the cross-owner public surface: listing public
// lessons and recording views. It needs no session.
type ExploreHandler struct {
	service simplelessons.Service
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(service simplelessons.Service) *ExploreHandler {
	return &ExploreHandler{service: service}
}

// Routes returns the routes for the public surface
func (h *ExploreHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublicLessons)
	r.Post("/{id}/views", h.RecordView)

	return r
}

// ListPublicLessons lists public lessons across all owners, newest first
func (h *ExploreHandler) ListPublicLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.ListPublicLessons(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, lessons)
}

// RecordView bumps a lesson's view counter. The counter is best effort, so
// this always answers 204.
func (h *ExploreHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	h.service.IncrementLessonViews(r.Context(), chi.URLParam(r, "id"))
	render.NoContent(w, r)
}
