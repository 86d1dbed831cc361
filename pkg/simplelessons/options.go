package simplelessons

import (
	"errors"
	"time"
)

// Option is a functional option for configuring the service
type Option func(*service)

// WithRecordStore sets the record store for the service (required)
func WithRecordStore(store RecordStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithSessionProvider sets the session provider for the service (required)
func WithSessionProvider(sessions SessionProvider) Option {
	return func(s *service) {
		s.sessions = sessions
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(events EventSink) Option {
	return func(s *service) {
		s.events = events
	}
}

// New creates a new service with the given options. A record store and a
// session provider are required.
func New(opts ...Option) (Service, error) {
	s := &service{
		events: NewNoopEventSink(),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		return nil, errors.New("record store is required")
	}
	if s.sessions == nil {
		return nil, errors.New("session provider is required")
	}

	s.lessonIDs = newResolver(s.store, CollectionLessons, "lesson")
	s.moduleIDs = newResolver(s.store, CollectionModules, "module")

	return s, nil
}
