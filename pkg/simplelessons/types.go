package simplelessons

import (
	"time"
)

// DifficultyLevel is the domain type for lesson and module difficulty.
type DifficultyLevel string

// Difficulty constants (typed). They form a fixed total order:
// beginner < intermediate < advanced.
const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// Rank returns the position of d in the fixed difficulty order. Unknown
// levels rank after advanced so they sort last rather than failing.
func (d DifficultyLevel) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 4
	}
}

// Valid reports whether d is one of the known difficulty levels.
func (d DifficultyLevel) Valid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

// LessonStatus is the domain type for lesson lifecycle states.
type LessonStatus string

// Lesson status constants (typed).
const (
	LessonStatusDraft     LessonStatus = "draft"
	LessonStatusPublished LessonStatus = "published"
)

// ModuleStatus is the domain type for module lifecycle states.
type ModuleStatus string

// Module status constants (typed).
const (
	ModuleStatusActive   ModuleStatus = "active"
	ModuleStatusDraft    ModuleStatus = "draft"
	ModuleStatusArchived ModuleStatus = "archived"
)

// KeyConcept is a term/definition pair taught by a lesson.
type KeyConcept struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Activity is a practice exercise attached to a lesson.
type Activity struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}

// Lesson represents one unit of educational content owned by a single
// account. OwnerID is stamped at creation and never changes; every
// owner-scoped operation verifies it before reading or writing.
type Lesson struct {
	ID               string          `json:"id,omitempty"`
	OwnerID          string          `json:"ownerId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Content          string          `json:"content,omitempty"`
	TargetAudience   string          `json:"targetAudience,omitempty"`
	LearningOutcomes []string        `json:"learningOutcomes,omitempty"`
	KeyConcepts      []KeyConcept    `json:"keyConcepts,omitempty"`
	Activities       []Activity      `json:"activities,omitempty"`
	Assessment       string          `json:"assessment,omitempty"`
	DifficultyLevel  DifficultyLevel `json:"difficultyLevel,omitempty"`

	// Module and CourseTopic are a legacy pair of free-text grouping labels.
	// Both are persisted; Topic() applies the documented precedence.
	Module      string `json:"module,omitempty"`
	CourseTopic string `json:"courseTopic,omitempty"`

	// ModuleID is the back-reference to the Module whose order list contains
	// this lesson, when it was created through AddLessonToModule.
	ModuleID string `json:"moduleId,omitempty"`

	Order         *int         `json:"order,omitempty"`
	Status        LessonStatus `json:"status,omitempty"`
	IsPublic      bool         `json:"isPublic,omitempty"`
	Views         int64        `json:"views"`
	Tags          []string     `json:"tags,omitempty"`
	EstimatedTime int          `json:"estimatedTime,omitempty"` // minutes
	Prerequisites []string     `json:"prerequisites,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Topic returns the authoritative grouping label for the lesson. The legacy
// record shape carries both "module" and "courseTopic" with inconsistent
// usage across old writers; module wins when both are set.
func (l *Lesson) Topic() string {
	if l.Module != "" {
		return l.Module
	}
	return l.CourseTopic
}

// Module groups lessons and holds the canonical display order. Lessons is a
// list of lesson ids, not embedded records; LessonCount is denormalized and
// must equal len(Lessons) after every successful write.
type Module struct {
	ID              string          `json:"id,omitempty"`
	OwnerID         string          `json:"ownerId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel,omitempty"`
	Status          ModuleStatus    `json:"status,omitempty"`
	Lessons         []string        `json:"lessons"`
	LessonCount     int             `json:"lessonCount"`

	// CompletionPercentage is a display value computed elsewhere; it is
	// stored and round-tripped but never derived by this package.
	CompletionPercentage *float64 `json:"completionPercentage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
