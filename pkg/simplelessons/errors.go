package simplelessons

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUnauthenticated indicates no caller session is present; owner-scoped
	// operations refuse to run without one.
	ErrUnauthenticated = errors.New("no authenticated session")

	// ErrLessonNotFound indicates a lesson was not found. A lesson owned by a
	// different caller reports the same error so that existence of other
	// owners' records is never leaked.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrModuleNotFound indicates a module was not found, under the same
	// rules as ErrLessonNotFound.
	ErrModuleNotFound = errors.New("module not found")

	// ErrValidation indicates required fields are missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence indicates the underlying record store call failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrRecordNotFound is returned by RecordStore implementations when a
	// key does not exist in a collection. The service maps it to the
	// domain-level not-found errors above.
	ErrRecordNotFound = errors.New("record not found")
)

// LessonError represents an error from a lesson operation
type LessonError struct {
	LessonID string
	Op       string
	Err      error
}

func (e *LessonError) Error() string {
	if e.LessonID == "" {
		return fmt.Sprintf("lesson operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("lesson operation %s failed for lesson %s: %v", e.Op, e.LessonID, e.Err)
}

func (e *LessonError) Unwrap() error {
	return e.Err
}

// ModuleError represents an error from a module operation
type ModuleError struct {
	ModuleID string
	Op       string
	Err      error
}

func (e *ModuleError) Error() string {
	if e.ModuleID == "" {
		return fmt.Sprintf("module operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("module operation %s failed for module %s: %v", e.Op, e.ModuleID, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}
