package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// Store implements simplelessons.RecordStore using in-memory collections.
//
// Documents are normalized through a JSON round trip on write, the same way
// a remote document store would serialize them, so reads always see JSON
// value types (string, bool, float64, []any, map[string]any) regardless of
// what the writer passed in.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]simplelessons.Document
}

// New creates a new in-memory record store
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]simplelessons.Document),
	}
}

func (s *Store) GetByID(ctx context.Context, collection, key string) (*simplelessons.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return nil, simplelessons.ErrRecordNotFound
	}
	docCopy, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	return &simplelessons.Record{Key: key, Doc: docCopy}, nil
}

func (s *Store) Put(ctx context.Context, collection, key string, doc simplelessons.Document) (string, error) {
	docCopy, err := normalize(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if key == "" {
		key = uuid.NewString()
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]simplelessons.Document)
	}
	s.collections[collection][key] = docCopy
	return key, nil
}

func (s *Store) Patch(ctx context.Context, collection, key string, patch simplelessons.Document) error {
	patchCopy, err := normalize(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return simplelessons.ErrRecordNotFound
	}
	for field, value := range patchCopy {
		doc[field] = value
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][key]; !ok {
		return simplelessons.ErrRecordNotFound
	}
	delete(s.collections[collection], key)
	return nil
}

func (s *Store) QueryByField(ctx context.Context, collection, field string, value any, opts ...simplelessons.QueryOption) ([]*simplelessons.Record, error) {
	var options simplelessons.QueryOptions
	for _, opt := range opts {
		opt(&options)
	}

	want, err := normalizeValue(value)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*simplelessons.Record
	for key, doc := range s.collections[collection] {
		if doc[field] != want {
			continue
		}
		docCopy, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, &simplelessons.Record{Key: key, Doc: docCopy})
	}

	// Key order is the deterministic default; an explicit ordering field is
	// compared as a string, which is correct for RFC3339 timestamps.
	sort.Slice(result, func(i, j int) bool {
		if options.OrderBy != "" {
			a, _ := result[i].Doc[options.OrderBy].(string)
			b, _ := result[j].Doc[options.OrderBy].(string)
			if a != b {
				if options.Descending {
					return a > b
				}
				return a < b
			}
		}
		return result[i].Key < result[j].Key
	})

	return result, nil
}

func (s *Store) IncrementField(ctx context.Context, collection, key, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return simplelessons.ErrRecordNotFound
	}

	current, _ := doc[field].(float64)
	doc[field] = current + float64(delta)
	return nil
}

// normalize deep-copies a document through JSON encoding.
func normalize(doc simplelessons.Document) (simplelessons.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	var out simplelessons.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	return out, nil
}

// normalizeValue maps a single match value to its JSON-decoded form so
// comparisons against stored fields use the same types.
func normalizeValue(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}
