package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// ModuleHandler handles HTTP requests for modules and sequencing
type ModuleHandler struct {
	service simplelessons.Service
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(service simplelessons.Service) *ModuleHandler {
	return &ModuleHandler{service: service}
}

// Routes returns the routes for modules
func (h *ModuleHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateModule)
	r.Get("/", h.ListModules)
	r.Get("/{id}", h.GetModule)
	r.Put("/{id}", h.UpdateModule)
	r.Delete("/{id}", h.DeleteModule)

	r.Post("/{id}/lessons", h.AddLesson)
	r.Get("/{id}/sequence", h.SuggestSequence)
	r.Put("/{id}/sequence", h.ReorderLessons)

	return r
}

// CreateModuleRequest is the request body for creating a module
type CreateModuleRequest struct {
	Title           string                        `json:"title"`
	Description     string                        `json:"description"`
	DifficultyLevel simplelessons.DifficultyLevel `json:"difficultyLevel"`
	Status          simplelessons.ModuleStatus    `json:"status"`
}

// UpdateModuleRequest is the request body for a partial module update
type UpdateModuleRequest struct {
	Title           *string                        `json:"title"`
	Description     *string                        `json:"description"`
	DifficultyLevel *simplelessons.DifficultyLevel `json:"difficultyLevel"`
	Status          *simplelessons.ModuleStatus    `json:"status"`
	Lessons         []string                       `json:"lessons"`
}

// ReorderRequest is the request body for persisting a new lesson order
type ReorderRequest struct {
	Lessons []string `json:"lessons"`
}

// CreateModule creates a new module
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	module, err := h.service.CreateModule(r.Context(), simplelessons.CreateModuleRequest{
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		Status:          req.Status,
	})
	if err != nil {
		slog.Error("Failed to create module", "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Module created", "module_id", module.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, module)
}

// GetModule retrieves a module by id
func (h *ModuleHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	module, err := h.service.GetModule(r.Context(), idStr)
	if err != nil {
		slog.Warn("Failed to get module", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, module)
}

// ListModules lists the caller's modules, newest first
func (h *ModuleHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.ListModules(r.Context())
	if err != nil {
		slog.Error("Failed to list modules", "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, modules)
}

// UpdateModule applies a partial update to a module
func (h *ModuleHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	var req UpdateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	module, err := h.service.UpdateModule(r.Context(), idStr, simplelessons.UpdateModuleRequest{
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		Status:          req.Status,
		Lessons:         req.Lessons,
	})
	if err != nil {
		slog.Error("Failed to update module", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Module updated", "module_id", module.ID)
	render.JSON(w, r, module)
}

// DeleteModule deletes a module; its lessons are left in place
func (h *ModuleHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	if err := h.service.DeleteModule(r.Context(), idStr); err != nil {
		slog.Error("Failed to delete module", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Module deleted", "module_id", idStr)
	render.NoContent(w, r)
}

// AddLesson creates a lesson inside a module's order list
func (h *ModuleHandler) AddLesson(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	var req CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	lesson, err := h.service.AddLessonToModule(r.Context(), idStr, req.toDomain())
	if err != nil {
		slog.Error("Failed to add lesson to module", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Lesson added to module", "module_id", idStr, "lesson_id", lesson.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, lesson)
}

// SuggestSequence returns the suggested teaching order for a module
func (h *ModuleHandler) SuggestSequence(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	lessons, err := h.service.SuggestSequence(r.Context(), idStr)
	if err != nil {
		slog.Warn("Failed to suggest sequence", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, lessons)
}

// ReorderLessons persists a new canonical lesson order
func (h *ModuleHandler) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.service.ReorderLessons(r.Context(), idStr, req.Lessons); err != nil {
		slog.Error("Failed to reorder lessons", "module_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Module reordered", "module_id", idStr, "lessons", len(req.Lessons))
	render.NoContent(w, r)
}
