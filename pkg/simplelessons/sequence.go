package simplelessons

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
)

// SuggestSequence loads the lessons referenced by a module and returns them
// in the suggested teaching order: difficulty ascending (beginner first),
// then the explicit order hint when both lessons define one, then title,
// with the lesson id as the final tiebreak so the order is total. The sort
// is stable, so repeated calls on unchanged data return the same sequence.
//
// Ids in the module's order list that no longer resolve are skipped.
func (s *service) SuggestSequence(ctx context.Context, moduleID string) ([]*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{ModuleID: moduleID, Op: "suggest-sequence", Err: err}
	}

	module, err := s.resolveModule(ctx, "suggest-sequence", moduleID, ownerID)
	if err != nil {
		return nil, err
	}

	lessons := make([]*Lesson, 0, len(module.Lessons))
	for _, id := range module.Lessons {
		rec, err := s.store.GetByID(ctx, CollectionLessons, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, &ModuleError{ModuleID: module.ID, Op: "suggest-sequence", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
		}
		lesson, err := lessonFromRecord(rec)
		if err != nil {
			return nil, &ModuleError{ModuleID: module.ID, Op: "suggest-sequence", Err: err}
		}
		if lesson.OwnerID != ownerID {
			continue
		}
		lessons = append(lessons, lesson)
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		return lessonBefore(lessons[i], lessons[j])
	})
	return lessons, nil
}

// lessonBefore is the suggested-order comparison. It is a strict weak
// ordering with no unresolved ties.
func lessonBefore(a, b *Lesson) bool {
	if ra, rb := a.DifficultyLevel.Rank(), b.DifficultyLevel.Rank(); ra != rb {
		return ra < rb
	}
	if a.Order != nil && b.Order != nil && *a.Order != *b.Order {
		return *a.Order < *b.Order
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

// ReorderLessons persists order as the module's canonical lesson sequence.
// The order list and LessonCount are rewritten together, then each lesson's
// order hint is patched to its new index.
func (s *service) ReorderLessons(ctx context.Context, moduleID string, order []string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return &ModuleError{ModuleID: moduleID, Op: "reorder", Err: err}
	}

	module, err := s.resolveModule(ctx, "reorder", moduleID, ownerID)
	if err != nil {
		return err
	}
	return s.persistSequence(ctx, module.ID, order)
}

// persistSequence writes the new order to the module record and fans the
// index positions out to the lessons' order fields.
func (s *service) persistSequence(ctx context.Context, moduleID string, order []string) error {
	now := s.now()
	patch := Document{
		"lessons":     order,
		"lessonCount": len(order),
		"updatedAt":   now,
	}
	if err := s.store.Patch(ctx, CollectionModules, moduleID, patch); err != nil {
		return &ModuleError{ModuleID: moduleID, Op: "reorder", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	for i, lessonID := range order {
		err := s.store.Patch(ctx, CollectionLessons, lessonID, Document{
			"order":     i,
			"updatedAt": now,
		})
		if err != nil && !isNotFound(err) {
			return &ModuleError{ModuleID: moduleID, Op: "reorder", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
		}
	}

	s.emit(ctx, "module reordered", func() error { return s.events.ModuleReordered(ctx, moduleID, order) })
	return nil
}

// ReorderState is the state of a single interactive reorder operation.
type ReorderState string

const (
	ReorderIdle       ReorderState = "idle"
	ReorderApplying   ReorderState = "applying"
	ReorderCommitted  ReorderState = "committed"
	ReorderRolledBack ReorderState = "rolled-back"
)

// Reorderer performs interactive move operations on one module's lesson
// order. Each Move applies the new order locally before persistence is
// issued (optimistic update) and restores the snapshot verbatim when
// persistence fails, so the caller-visible order never silently diverges
// from the stored one.
//
// A Reorderer is not safe for concurrent use, and two Reorderers on the same
// module are not coordinated: the later persisted write wins at the store.
type Reorderer struct {
	svc      *service
	moduleID string
	order    []string
	state    ReorderState
}

// NewReorderer resolves the module and captures its current order as the
// working state for subsequent moves.
func (s *service) NewReorderer(ctx context.Context, moduleID string) (*Reorderer, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{ModuleID: moduleID, Op: "reorder", Err: err}
	}
	module, err := s.resolveModule(ctx, "reorder", moduleID, ownerID)
	if err != nil {
		return nil, err
	}

	return &Reorderer{
		svc:      s,
		moduleID: module.ID,
		order:    slices.Clone(module.Lessons),
		state:    ReorderIdle,
	}, nil
}

// Order returns a copy of the caller-visible lesson order.
func (r *Reorderer) Order() []string {
	return slices.Clone(r.order)
}

// State returns the state of the most recent move.
func (r *Reorderer) State() ReorderState {
	return r.state
}

// Move removes the lesson id at fromIndex and reinserts it at toIndex. The
// local order reflects the move before the persistence call is issued; on
// persistence failure the pre-move order is restored before Move returns.
func (r *Reorderer) Move(ctx context.Context, fromIndex, toIndex int) error {
	if fromIndex < 0 || fromIndex >= len(r.order) || toIndex < 0 || toIndex >= len(r.order) {
		return &ModuleError{ModuleID: r.moduleID, Op: "move",
			Err: fmt.Errorf("%w: index out of range [%d -> %d] with %d lessons", ErrValidation, fromIndex, toIndex, len(r.order))}
	}

	snapshot := slices.Clone(r.order)
	r.state = ReorderApplying

	moved := r.order[fromIndex]
	r.order = slices.Delete(r.order, fromIndex, fromIndex+1)
	r.order = slices.Insert(r.order, toIndex, moved)

	if err := r.svc.persistSequence(ctx, r.moduleID, r.order); err != nil {
		r.order = snapshot
		r.state = ReorderRolledBack
		slog.Warn("reorder rolled back", "module_id", r.moduleID, "error", err)
		return err
	}

	r.state = ReorderCommitted
	return nil
}
