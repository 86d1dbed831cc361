package simplelessons

import (
	"context"
	"fmt"
	"log/slog"
)

// ListPublicLessons returns every lesson marked public across all owners,
// newest first. This is the one intentionally cross-tenant read; a missing
// views field decodes as 0.
func (s *service) ListPublicLessons(ctx context.Context) ([]*Lesson, error) {
	recs, err := s.store.QueryByField(ctx, CollectionLessons, "isPublic", true, WithOrderByDesc("createdAt"))
	if err != nil {
		return nil, &LessonError{Op: "list-public", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	return lessonsFromRecords(recs)
}

// IncrementLessonViews adds one to a lesson's public view counter with a
// store-level atomic increment, never a client read-modify-write, so
// concurrent viewers cannot lose updates.
//
// The counter is best effort: failures are logged and swallowed, and the
// stored count is left unchanged when the increment does not apply.
func (s *service) IncrementLessonViews(ctx context.Context, lessonID string) {
	if err := s.store.IncrementField(ctx, CollectionLessons, lessonID, "views", 1); err != nil {
		slog.Warn("view count increment failed", "lesson_id", lessonID, "error", err)
	}
}
