package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// LessonHandler handles HTTP requests for lessons
type LessonHandler struct {
	service simplelessons.Service
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(service simplelessons.Service) *LessonHandler {
	return &LessonHandler{service: service}
}

// Routes returns the routes for lessons
func (h *LessonHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateLesson)
	r.Get("/", h.ListLessons)
	r.Get("/topics", h.ListTopics)
	r.Get("/{id}", h.GetLesson)
	r.Put("/{id}", h.UpdateLesson)
	r.Delete("/{id}", h.DeleteLesson)

	return r
}

// CreateLessonRequest is the request body for creating a lesson
type CreateLessonRequest struct {
	Title            string                        `json:"title"`
	Description      string                        `json:"description"`
	Content          string                        `json:"content"`
	TargetAudience   string                        `json:"targetAudience"`
	LearningOutcomes []string                      `json:"learningOutcomes"`
	KeyConcepts      []simplelessons.KeyConcept    `json:"keyConcepts"`
	Activities       []simplelessons.Activity      `json:"activities"`
	Assessment       string                        `json:"assessment"`
	DifficultyLevel  simplelessons.DifficultyLevel `json:"difficultyLevel"`
	Module           string                        `json:"module"`
	CourseTopic      string                        `json:"courseTopic"`
	Order            *int                          `json:"order"`
	Status           simplelessons.LessonStatus    `json:"status"`
	IsPublic         bool                          `json:"isPublic"`
	Tags             []string                      `json:"tags"`
	EstimatedTime    int                           `json:"estimatedTime"`
	Prerequisites    []string                      `json:"prerequisites"`
}

func (req CreateLessonRequest) toDomain() simplelessons.CreateLessonRequest {
	return simplelessons.CreateLessonRequest{
		Title:            req.Title,
		Description:      req.Description,
		Content:          req.Content,
		TargetAudience:   req.TargetAudience,
		LearningOutcomes: req.LearningOutcomes,
		KeyConcepts:      req.KeyConcepts,
		Activities:       req.Activities,
		Assessment:       req.Assessment,
		DifficultyLevel:  req.DifficultyLevel,
		Module:           req.Module,
		CourseTopic:      req.CourseTopic,
		Order:            req.Order,
		Status:           req.Status,
		IsPublic:         req.IsPublic,
		Tags:             req.Tags,
		EstimatedTime:    req.EstimatedTime,
		Prerequisites:    req.Prerequisites,
	}
}

// UpdateLessonRequest is the request body for a partial lesson update
type UpdateLessonRequest struct {
	Title            *string                        `json:"title"`
	Description      *string                        `json:"description"`
	Content          *string                        `json:"content"`
	TargetAudience   *string                        `json:"targetAudience"`
	LearningOutcomes []string                       `json:"learningOutcomes"`
	KeyConcepts      []simplelessons.KeyConcept     `json:"keyConcepts"`
	Activities       []simplelessons.Activity       `json:"activities"`
	Assessment       *string                        `json:"assessment"`
	DifficultyLevel  *simplelessons.DifficultyLevel `json:"difficultyLevel"`
	Module           *string                        `json:"module"`
	CourseTopic      *string                        `json:"courseTopic"`
	Order            *int                           `json:"order"`
	Status           *simplelessons.LessonStatus    `json:"status"`
	IsPublic         *bool                          `json:"isPublic"`
	Tags             []string                       `json:"tags"`
	EstimatedTime    *int                           `json:"estimatedTime"`
	Prerequisites    []string                       `json:"prerequisites"`
}

func (req UpdateLessonRequest) toDomain() simplelessons.UpdateLessonRequest {
	return simplelessons.UpdateLessonRequest{
		Title:            req.Title,
		Description:      req.Description,
		Content:          req.Content,
		TargetAudience:   req.TargetAudience,
		LearningOutcomes: req.LearningOutcomes,
		KeyConcepts:      req.KeyConcepts,
		Activities:       req.Activities,
		Assessment:       req.Assessment,
		DifficultyLevel:  req.DifficultyLevel,
		Module:           req.Module,
		CourseTopic:      req.CourseTopic,
		Order:            req.Order,
		Status:           req.Status,
		IsPublic:         req.IsPublic,
		Tags:             req.Tags,
		EstimatedTime:    req.EstimatedTime,
		Prerequisites:    req.Prerequisites,
	}
}

// CreateLesson creates a new lesson
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), req.toDomain())
	if err != nil {
		slog.Error("Failed to create lesson", "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Lesson created", "lesson_id", lesson.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, lesson)
}

// GetLesson retrieves a lesson by id, tolerant of legacy id shapes
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	lesson, err := h.service.GetLesson(r.Context(), idStr)
	if err != nil {
		slog.Warn("Failed to get lesson", "lesson_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, lesson)
}

// ListLessons lists the caller's lessons, newest first
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.ListLessons(r.Context())
	if err != nil {
		slog.Error("Failed to list lessons", "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, lessons)
}

// ListTopics lists the caller's distinct grouping labels
func (h *LessonHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		slog.Error("Failed to list topics", "error", err)
		renderError(w, r, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}

	render.JSON(w, r, topics)
}

// UpdateLesson applies a partial update to a lesson
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	var req UpdateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), idStr, req.toDomain())
	if err != nil {
		slog.Error("Failed to update lesson", "lesson_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Lesson updated", "lesson_id", lesson.ID)
	render.JSON(w, r, lesson)
}

// DeleteLesson deletes a lesson and detaches it from its module
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	if err := h.service.DeleteLesson(r.Context(), idStr); err != nil {
		slog.Error("Failed to delete lesson", "lesson_id", idStr, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("Lesson deleted", "lesson_id", idStr)
	render.NoContent(w, r)
}
