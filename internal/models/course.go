package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseProgress is the per-user aggregate over a course's active lessons.
type CourseProgress struct {
	UserID             uuid.UUID  `json:"user_id"`
	CourseID           uuid.UUID  `json:"course_id"`
	ProgressPercentage int        `json:"progress_percentage"`
	LessonsCompleted   int        `json:"lessons_completed"`
	TotalLessons       int        `json:"total_lessons"`
	CurrentLessonID    *uuid.UUID `json:"current_lesson_id"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	LastAccessedAt     time.Time  `json:"last_accessed_at"`
}

// LessonState is one active lesson with its position and the user's completion.
type LessonState struct {
	LessonID    uuid.UUID
	ModuleOrder int
	LessonOrder int
	Completed   bool
}

// LessonStats is a fresh count over active lessons of a course or a module.
// CurrentLessonID is nil when every active lesson is completed.
type LessonStats struct {
	Completed       int
	Total           int
	CurrentLessonID *uuid.UUID
}

type Certificate struct {
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	URL         string    `json:"url"`
	CompletedAt time.Time `json:"completed_at"`
}
