package simplelessons

import "context"

// noopEventSink discards all events.
type noopEventSink struct{}

// NewNoopEventSink creates an event sink that does nothing. It is the
// default when no sink is configured.
func NewNoopEventSink() EventSink {
	return noopEventSink{}
}

func (noopEventSink) LessonCreated(ctx context.Context, lesson *Lesson) error { return nil }

func (noopEventSink) LessonUpdated(ctx context.Context, lesson *Lesson) error { return nil }

func (noopEventSink) LessonDeleted(ctx context.Context, lessonID string) error { return nil }

func (noopEventSink) ModuleReordered(ctx context.Context, moduleID string, order []string) error {
	return nil
}
