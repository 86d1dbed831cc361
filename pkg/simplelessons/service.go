package simplelessons

import (
	"context"
)

// Service defines the main interface for the simple-lessons library.
//
// All lesson and module operations except ListPublicLessons and
// IncrementLessonViews are owner-scoped: they derive the owner from the
// configured SessionProvider, fail with ErrUnauthenticated when no session
// is present, and report records owned by other callers as not found.
type Service interface {
	// Lesson operations
	CreateLesson(ctx context.Context, req CreateLessonRequest) (*Lesson, error)
	GetLesson(ctx context.Context, id string) (*Lesson, error)
	ListLessons(ctx context.Context) ([]*Lesson, error)
	UpdateLesson(ctx context.Context, id string, req UpdateLessonRequest) (*Lesson, error)
	DeleteLesson(ctx context.Context, id string) error

	// Topic helpers over the legacy module/courseTopic grouping labels
	ListLessonsByTopic(ctx context.Context, topic string) ([]*Lesson, error)
	ListTopics(ctx context.Context) ([]string, error)

	// Module operations
	CreateModule(ctx context.Context, req CreateModuleRequest) (*Module, error)
	GetModule(ctx context.Context, id string) (*Module, error)
	ListModules(ctx context.Context) ([]*Module, error)
	UpdateModule(ctx context.Context, id string, req UpdateModuleRequest) (*Module, error)
	DeleteModule(ctx context.Context, id string) error
	AddLessonToModule(ctx context.Context, moduleID string, req CreateLessonRequest) (*Lesson, error)

	// Sequencing
	SuggestSequence(ctx context.Context, moduleID string) ([]*Lesson, error)
	ReorderLessons(ctx context.Context, moduleID string, order []string) error
	NewReorderer(ctx context.Context, moduleID string) (*Reorderer, error)

	// Visibility and engagement
	ListPublicLessons(ctx context.Context) ([]*Lesson, error)
	IncrementLessonViews(ctx context.Context, lessonID string)
}
