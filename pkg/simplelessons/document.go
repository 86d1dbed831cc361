package simplelessons

import (
	"encoding/json"
	"fmt"
)

// Document is one schemaless record in a RecordStore collection. Values are
// restricted to what JSON round-trips produce: strings, bools, float64,
// []any, and nested map[string]any.
type Document map[string]any

// Record pairs a stored document with its store-assigned key. The key and an
// "id" field embedded in the document may differ; identifier resolution
// checks both, while writes always address the key.
type Record struct {
	Key string
	Doc Document
}

// toDocument converts a domain record to its stored document shape via a
// JSON round trip so the document matches the wire encoding exactly.
func toDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// fromDocument decodes a stored document into a domain record.
func fromDocument(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// lessonFromRecord decodes a lesson record. The store key is authoritative
// for the lesson id regardless of any embedded "id" field.
func lessonFromRecord(rec *Record) (*Lesson, error) {
	var lesson Lesson
	if err := fromDocument(rec.Doc, &lesson); err != nil {
		return nil, err
	}
	lesson.ID = rec.Key
	return &lesson, nil
}

// moduleFromRecord decodes a module record, key authoritative as above.
func moduleFromRecord(rec *Record) (*Module, error) {
	var module Module
	if err := fromDocument(rec.Doc, &module); err != nil {
		return nil, err
	}
	module.ID = rec.Key
	if module.Lessons == nil {
		module.Lessons = []string{}
	}
	return &module, nil
}
