package simplelessons

// Request DTOs

// CreateLessonRequest contains parameters for creating a new lesson. Title
// and Description are required; everything else is optional.
type CreateLessonRequest struct {
	Title            string
	Description      string
	Content          string
	TargetAudience   string
	LearningOutcomes []string
	KeyConcepts      []KeyConcept
	Activities       []Activity
	Assessment       string
	DifficultyLevel  DifficultyLevel
	Module           string
	CourseTopic      string
	Order            *int
	Status           LessonStatus
	IsPublic         bool
	Tags             []string
	EstimatedTime    int
	Prerequisites    []string
}

// UpdateLessonRequest contains a partial lesson update. Nil fields are left
// unchanged; slices follow the same rule (nil means no change, an empty
// slice clears the field). OwnerID is not patchable.
type UpdateLessonRequest struct {
	Title            *string
	Description      *string
	Content          *string
	TargetAudience   *string
	LearningOutcomes []string
	KeyConcepts      []KeyConcept
	Activities       []Activity
	Assessment       *string
	DifficultyLevel  *DifficultyLevel
	Module           *string
	CourseTopic      *string
	Order            *int
	Status           *LessonStatus
	IsPublic         *bool
	Tags             []string
	EstimatedTime    *int
	Prerequisites    []string
}

func (r UpdateLessonRequest) apply(l *Lesson) {
	if r.Title != nil {
		l.Title = *r.Title
	}
	if r.Description != nil {
		l.Description = *r.Description
	}
	if r.Content != nil {
		l.Content = *r.Content
	}
	if r.TargetAudience != nil {
		l.TargetAudience = *r.TargetAudience
	}
	if r.LearningOutcomes != nil {
		l.LearningOutcomes = r.LearningOutcomes
	}
	if r.KeyConcepts != nil {
		l.KeyConcepts = r.KeyConcepts
	}
	if r.Activities != nil {
		l.Activities = r.Activities
	}
	if r.Assessment != nil {
		l.Assessment = *r.Assessment
	}
	if r.DifficultyLevel != nil {
		l.DifficultyLevel = *r.DifficultyLevel
	}
	if r.Module != nil {
		l.Module = *r.Module
	}
	if r.CourseTopic != nil {
		l.CourseTopic = *r.CourseTopic
	}
	if r.Order != nil {
		l.Order = r.Order
	}
	if r.Status != nil {
		l.Status = *r.Status
	}
	if r.IsPublic != nil {
		l.IsPublic = *r.IsPublic
	}
	if r.Tags != nil {
		l.Tags = r.Tags
	}
	if r.EstimatedTime != nil {
		l.EstimatedTime = *r.EstimatedTime
	}
	if r.Prerequisites != nil {
		l.Prerequisites = r.Prerequisites
	}
}

// CreateModuleRequest contains parameters for creating a new module. Title
// and Description are required. Modules start with an empty lesson order.
type CreateModuleRequest struct {
	Title           string
	Description     string
	DifficultyLevel DifficultyLevel
	Status          ModuleStatus
}

// UpdateModuleRequest contains a partial module update. Setting Lessons
// replaces the canonical order; LessonCount is always recomputed from it.
type UpdateModuleRequest struct {
	Title           *string
	Description     *string
	DifficultyLevel *DifficultyLevel
	Status          *ModuleStatus
	Lessons         []string
}

func (r UpdateModuleRequest) apply(m *Module) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.DifficultyLevel != nil {
		m.DifficultyLevel = *r.DifficultyLevel
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	if r.Lessons != nil {
		m.Lessons = r.Lessons
	}
}
