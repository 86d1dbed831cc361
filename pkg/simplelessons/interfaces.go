package simplelessons

import (
	"context"
)

// Collection names used by the service against a RecordStore.
const (
	CollectionLessons = "lessons"
	CollectionModules = "modules"
)

// RecordStore defines the interface for schemaless document persistence.
// Implementations (e.g., memory, Postgres) are provided under subpackages.
//
// Keys are opaque strings assigned by the store when Put receives an empty
// key. IncrementField must be atomic at the store so that concurrent
// increments from different callers never lose updates.
type RecordStore interface {
	// GetByID returns the record stored under key, or ErrRecordNotFound.
	GetByID(ctx context.Context, collection, key string) (*Record, error)

	// Put stores doc under key, overwriting any existing record. An empty
	// key asks the store to assign one; the assigned key is returned.
	Put(ctx context.Context, collection, key string, doc Document) (string, error)

	// Patch merges the top-level fields of patch over the stored record.
	Patch(ctx context.Context, collection, key string, patch Document) error

	// DeleteByID removes the record stored under key.
	DeleteByID(ctx context.Context, collection, key string) error

	// QueryByField returns all records whose field equals value. Without an
	// ordering option the result order is deterministic (key ascending).
	QueryByField(ctx context.Context, collection, field string, value any, opts ...QueryOption) ([]*Record, error)

	// IncrementField atomically adds delta to a numeric field, treating a
	// missing field as zero.
	IncrementField(ctx context.Context, collection, key, field string, delta int64) error
}

// QueryOptions holds resolved query options for QueryByField.
type QueryOptions struct {
	OrderBy    string
	Descending bool
}

// QueryOption is a functional option for QueryByField.
type QueryOption func(*QueryOptions)

// WithOrderBy orders results by the given field, ascending.
func WithOrderBy(field string) QueryOption {
	return func(o *QueryOptions) {
		o.OrderBy = field
		o.Descending = false
	}
}

// WithOrderByDesc orders results by the given field, descending.
func WithOrderByDesc(field string) QueryOption {
	return func(o *QueryOptions) {
		o.OrderBy = field
		o.Descending = true
	}
}

// Session identifies the authenticated caller of owner-scoped operations.
type Session struct {
	OwnerID string
	Email   string
}

// SessionProvider supplies the current caller identity. It replaces the
// ambient client-side user cache of earlier revisions with an injected
// collaborator that has an explicit lifecycle.
type SessionProvider interface {
	// Init prepares the provider. It is called once before first use.
	Init(ctx context.Context) error

	// Current returns the caller's session, or ErrUnauthenticated.
	Current(ctx context.Context) (Session, error)

	// OnChange registers a callback invoked when the session changes.
	// Providers with per-request identity may treat this as a no-op.
	OnChange(fn func(Session))
}

// EventSink defines the interface for lifecycle event handling. Sink
// failures are logged by the service and never surfaced to callers.
type EventSink interface {
	// LessonCreated is fired when a lesson is created
	LessonCreated(ctx context.Context, lesson *Lesson) error

	// LessonUpdated is fired when a lesson is updated
	LessonUpdated(ctx context.Context, lesson *Lesson) error

	// LessonDeleted is fired when a lesson is deleted
	LessonDeleted(ctx context.Context, lessonID string) error

	// ModuleReordered is fired when a module's lesson order is persisted
	ModuleReordered(ctx context.Context, moduleID string, order []string) error
}
