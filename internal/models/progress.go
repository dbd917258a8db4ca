package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

type LessonProgress struct {
	UserID                  uuid.UUID      `json:"user_id"`
	LessonID                uuid.UUID      `json:"lesson_id"`
	Status                  ProgressStatus `json:"status"`
	VideoWatched            bool           `json:"video_watched"`
	VideoProgressPercentage int            `json:"video_progress_percentage"`
	QuizCompleted           bool           `json:"quiz_completed"`
	QuizScore               *float64       `json:"quiz_score"`
	TaskCompleted           bool           `json:"task_completed"`
	StartedAt               time.Time      `json:"started_at"`
	CompletedAt             *time.Time     `json:"completed_at"`
	LastAccessedAt          time.Time      `json:"last_accessed_at"`
}

// ProgressUpdate is one activity report. Nil fields were not supplied.
type ProgressUpdate struct {
	UserID                  uuid.UUID
	LessonID                uuid.UUID
	VideoWatched            *bool
	VideoProgressPercentage *int
	QuizCompleted           *bool
	QuizScore               *float64
	TaskCompleted           *bool
}

type ProgressFlags struct {
	VideoWatched  bool
	QuizCompleted bool
	TaskCompleted bool
}

func (p LessonProgress) Flags() ProgressFlags {
	return ProgressFlags{
		VideoWatched:  p.VideoWatched,
		QuizCompleted: p.QuizCompleted,
		TaskCompleted: p.TaskCompleted,
	}
}
