package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityLessonProgress  = "lesson_progress"
	ActivityLessonCompleted = "lesson_completed"
	ActivityCourseCompleted = "course_completed"
)

type ActivityEvent struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Type       string         `json:"type"`
	LessonID   uuid.UUID      `json:"lesson_id"`
	CourseID   uuid.UUID      `json:"course_id"`
	Status     ProgressStatus `json:"status"`
	XPAwarded  int            `json:"xp_awarded"`
	OccurredAt time.Time      `json:"occurred_at"`
}
