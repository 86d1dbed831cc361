package simplelessons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// service is the default Service implementation.
type service struct {
	store    RecordStore
	sessions SessionProvider
	events   EventSink
	now      func() time.Time

	lessonIDs *resolver
	moduleIDs *resolver
}

// owner returns the caller's owner id from the session provider.
func (s *service) owner(ctx context.Context) (string, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if sess.OwnerID == "" {
		return "", ErrUnauthenticated
	}
	return sess.OwnerID, nil
}

// Lesson operations

func (s *service) CreateLesson(ctx context.Context, req CreateLessonRequest) (*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &LessonError{Op: "create", Err: err}
	}

	if err := validateRequired("title", req.Title); err != nil {
		return nil, &LessonError{Op: "create", Err: err}
	}
	if err := validateRequired("description", req.Description); err != nil {
		return nil, &LessonError{Op: "create", Err: err}
	}

	now := s.now()
	lesson := &Lesson{
		OwnerID:          ownerID,
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
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if lesson.Status == "" {
		lesson.Status = LessonStatusDraft
	}

	doc, err := toDocument(lesson)
	if err != nil {
		return nil, &LessonError{Op: "create", Err: err}
	}
	id, err := s.store.Put(ctx, CollectionLessons, "", doc)
	if err != nil {
		return nil, &LessonError{Op: "create", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	lesson.ID = id

	s.emit(ctx, "lesson created", func() error { return s.events.LessonCreated(ctx, lesson) })
	return lesson, nil
}

func (s *service) GetLesson(ctx context.Context, id string) (*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &LessonError{LessonID: id, Op: "get", Err: err}
	}
	return s.resolveLesson(ctx, "get", id, ownerID)
}

func (s *service) ListLessons(ctx context.Context) ([]*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &LessonError{Op: "list", Err: err}
	}

	recs, err := s.store.QueryByField(ctx, CollectionLessons, "ownerId", ownerID, WithOrderByDesc("createdAt"))
	if err != nil {
		return nil, &LessonError{Op: "list", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	return lessonsFromRecords(recs)
}

func (s *service) UpdateLesson(ctx context.Context, id string, req UpdateLessonRequest) (*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &LessonError{LessonID: id, Op: "update", Err: err}
	}

	lesson, err := s.resolveLesson(ctx, "update", id, ownerID)
	if err != nil {
		return nil, err
	}

	req.apply(lesson)
	if err := validateRequired("title", lesson.Title); err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "update", Err: err}
	}
	if err := validateRequired("description", lesson.Description); err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "update", Err: err}
	}
	lesson.UpdatedAt = s.now()

	doc, err := toDocument(lesson)
	if err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "update", Err: err}
	}
	if _, err := s.store.Put(ctx, CollectionLessons, lesson.ID, doc); err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "update", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	s.emit(ctx, "lesson updated", func() error { return s.events.LessonUpdated(ctx, lesson) })
	return lesson, nil
}

func (s *service) DeleteLesson(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return &LessonError{LessonID: id, Op: "delete", Err: err}
	}

	lesson, err := s.resolveLesson(ctx, "delete", id, ownerID)
	if err != nil {
		return err
	}

	// Detach from the owning module's order list first so the module never
	// references a deleted lesson. Not a cascade: only this lesson goes.
	if lesson.ModuleID != "" {
		if err := s.detachFromModule(ctx, ownerID, lesson.ModuleID, lesson.ID); err != nil {
			return &LessonError{LessonID: lesson.ID, Op: "delete", Err: err}
		}
	}

	if err := s.store.DeleteByID(ctx, CollectionLessons, lesson.ID); err != nil {
		return &LessonError{LessonID: lesson.ID, Op: "delete", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	s.emit(ctx, "lesson deleted", func() error { return s.events.LessonDeleted(ctx, lesson.ID) })
	return nil
}

func (s *service) ListLessonsByTopic(ctx context.Context, topic string) ([]*Lesson, error) {
	lessons, err := s.ListLessons(ctx)
	if err != nil {
		return nil, err
	}

	// The legacy writers split the grouping label across module and
	// courseTopic; a lesson matches when either one carries the label.
	var result []*Lesson
	for _, lesson := range lessons {
		if lesson.Module == topic || lesson.CourseTopic == topic {
			result = append(result, lesson)
		}
	}
	return result, nil
}

func (s *service) ListTopics(ctx context.Context) ([]string, error) {
	lessons, err := s.ListLessons(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var topics []string
	for _, lesson := range lessons {
		topic := lesson.Topic()
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics, nil
}

// Module operations

func (s *service) CreateModule(ctx context.Context, req CreateModuleRequest) (*Module, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{Op: "create", Err: err}
	}

	if err := validateRequired("title", req.Title); err != nil {
		return nil, &ModuleError{Op: "create", Err: err}
	}
	if err := validateRequired("description", req.Description); err != nil {
		return nil, &ModuleError{Op: "create", Err: err}
	}

	now := s.now()
	module := &Module{
		OwnerID:         ownerID,
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		Status:          req.Status,
		Lessons:         []string{},
		LessonCount:     0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if module.Status == "" {
		module.Status = ModuleStatusDraft
	}

	doc, err := toDocument(module)
	if err != nil {
		return nil, &ModuleError{Op: "create", Err: err}
	}
	id, err := s.store.Put(ctx, CollectionModules, "", doc)
	if err != nil {
		return nil, &ModuleError{Op: "create", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	module.ID = id
	return module, nil
}

func (s *service) GetModule(ctx context.Context, id string) (*Module, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "get", Err: err}
	}
	return s.resolveModule(ctx, "get", id, ownerID)
}

func (s *service) ListModules(ctx context.Context) ([]*Module, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{Op: "list", Err: err}
	}

	recs, err := s.store.QueryByField(ctx, CollectionModules, "ownerId", ownerID, WithOrderByDesc("createdAt"))
	if err != nil {
		return nil, &ModuleError{Op: "list", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	modules := make([]*Module, 0, len(recs))
	for _, rec := range recs {
		module, err := moduleFromRecord(rec)
		if err != nil {
			return nil, &ModuleError{ModuleID: rec.Key, Op: "list", Err: err}
		}
		modules = append(modules, module)
	}
	return modules, nil
}

func (s *service) UpdateModule(ctx context.Context, id string, req UpdateModuleRequest) (*Module, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: "update", Err: err}
	}

	module, err := s.resolveModule(ctx, "update", id, ownerID)
	if err != nil {
		return nil, err
	}

	req.apply(module)
	if err := validateRequired("title", module.Title); err != nil {
		return nil, &ModuleError{ModuleID: module.ID, Op: "update", Err: err}
	}
	if err := validateRequired("description", module.Description); err != nil {
		return nil, &ModuleError{ModuleID: module.ID, Op: "update", Err: err}
	}

	if err := s.putModule(ctx, module); err != nil {
		return nil, &ModuleError{ModuleID: module.ID, Op: "update", Err: err}
	}
	return module, nil
}

func (s *service) DeleteModule(ctx context.Context, id string) error {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return &ModuleError{ModuleID: id, Op: "delete", Err: err}
	}

	module, err := s.resolveModule(ctx, "delete", id, ownerID)
	if err != nil {
		return err
	}

	// Lessons referenced by the module are left in place; they remain
	// reachable through the lesson listing.
	if err := s.store.DeleteByID(ctx, CollectionModules, module.ID); err != nil {
		return &ModuleError{ModuleID: module.ID, Op: "delete", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	return nil
}

func (s *service) AddLessonToModule(ctx context.Context, moduleID string, req CreateLessonRequest) (*Lesson, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, &ModuleError{ModuleID: moduleID, Op: "add-lesson", Err: err}
	}

	module, err := s.resolveModule(ctx, "add-lesson", moduleID, ownerID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.CreateLesson(ctx, req)
	if err != nil {
		return nil, err
	}

	// Stamp the back-reference, then append to the canonical order.
	lesson.ModuleID = module.ID
	lesson.UpdatedAt = s.now()
	doc, err := toDocument(lesson)
	if err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "add-lesson", Err: err}
	}
	if _, err := s.store.Put(ctx, CollectionLessons, lesson.ID, doc); err != nil {
		return nil, &LessonError{LessonID: lesson.ID, Op: "add-lesson", Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}

	module.Lessons = append(module.Lessons, lesson.ID)
	if err := s.putModule(ctx, module); err != nil {
		return nil, &ModuleError{ModuleID: module.ID, Op: "add-lesson", Err: err}
	}
	return lesson, nil
}

// Helpers

// resolveLesson runs identifier resolution and maps misses (including
// foreign-owner records) to ErrLessonNotFound.
func (s *service) resolveLesson(ctx context.Context, op, id, ownerID string) (*Lesson, error) {
	rec, err := s.lessonIDs.resolve(ctx, id, ownerID)
	if err != nil {
		return nil, &LessonError{LessonID: id, Op: op, Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	if rec == nil {
		return nil, &LessonError{LessonID: id, Op: op, Err: ErrLessonNotFound}
	}
	lesson, err := lessonFromRecord(rec)
	if err != nil {
		return nil, &LessonError{LessonID: id, Op: op, Err: err}
	}
	return lesson, nil
}

func (s *service) resolveModule(ctx context.Context, op, id, ownerID string) (*Module, error) {
	rec, err := s.moduleIDs.resolve(ctx, id, ownerID)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: op, Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	if rec == nil {
		return nil, &ModuleError{ModuleID: id, Op: op, Err: ErrModuleNotFound}
	}
	module, err := moduleFromRecord(rec)
	if err != nil {
		return nil, &ModuleError{ModuleID: id, Op: op, Err: err}
	}
	return module, nil
}

// putModule persists a module, rewriting LessonCount and UpdatedAt together
// with the order list so the count never drifts from len(Lessons).
func (s *service) putModule(ctx context.Context, module *Module) error {
	if module.Lessons == nil {
		module.Lessons = []string{}
	}
	module.LessonCount = len(module.Lessons)
	module.UpdatedAt = s.now()

	doc, err := toDocument(module)
	if err != nil {
		return err
	}
	if _, err := s.store.Put(ctx, CollectionModules, module.ID, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// detachFromModule removes lessonID from the module's order list. A missing
// or foreign-owner module is not an error here: the back-reference may be
// stale and the lesson delete should still proceed.
func (s *service) detachFromModule(ctx context.Context, ownerID, moduleID, lessonID string) error {
	rec, err := s.store.GetByID(ctx, CollectionModules, moduleID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	module, err := moduleFromRecord(rec)
	if err != nil {
		return err
	}
	if module.OwnerID != ownerID {
		return nil
	}

	kept := module.Lessons[:0]
	for _, id := range module.Lessons {
		if id != lessonID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(module.Lessons) {
		return nil
	}
	module.Lessons = kept
	return s.putModule(ctx, module)
}

// emit runs an event sink call, logging failures instead of surfacing them.
func (s *service) emit(ctx context.Context, event string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("event sink failed", "event", event, "error", err)
	}
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

func lessonsFromRecords(recs []*Record) ([]*Lesson, error) {
	lessons := make([]*Lesson, 0, len(recs))
	for _, rec := range recs {
		lesson, err := lessonFromRecord(rec)
		if err != nil {
			return nil, &LessonError{LessonID: rec.Key, Op: "decode", Err: err}
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}
