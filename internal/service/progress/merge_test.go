package progress

import (
	"LearnTrack/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		flags models.ProgressFlags
		want  models.ProgressStatus
	}{
		{"nothing", models.ProgressFlags{}, models.StatusNotStarted},
		{"video only", models.ProgressFlags{VideoWatched: true}, models.StatusInProgress},
		{"quiz only", models.ProgressFlags{QuizCompleted: true}, models.StatusInProgress},
		{"task only", models.ProgressFlags{TaskCompleted: true}, models.StatusInProgress},
		{"two of three", models.ProgressFlags{VideoWatched: true, TaskCompleted: true}, models.StatusInProgress},
		{"all three", models.ProgressFlags{VideoWatched: true, QuizCompleted: true, TaskCompleted: true}, models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.flags))
		})
	}
}

func TestMergeFlagsNeverRegresses(t *testing.T) {
	old := models.ProgressFlags{VideoWatched: true, QuizCompleted: true}

	merged := MergeFlags(old, models.ProgressUpdate{
		VideoWatched:  ptr(false),
		QuizCompleted: ptr(false),
		TaskCompleted: ptr(false),
	})
	assert.Equal(t, old, merged)

	merged = MergeFlags(old, models.ProgressUpdate{TaskCompleted: ptr(true)})
	assert.Equal(t, models.ProgressFlags{VideoWatched: true, QuizCompleted: true, TaskCompleted: true}, merged)
}

func TestMergeFlagsIgnoresUnsupplied(t *testing.T) {
	old := models.ProgressFlags{TaskCompleted: true}
	assert.Equal(t, old, MergeFlags(old, models.ProgressUpdate{}))
}

func TestApplySetsCompletedAtOnce(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	all := models.ProgressUpdate{VideoWatched: ptr(true), QuizCompleted: ptr(true), TaskCompleted: ptr(true)}

	first, just := Apply(models.LessonProgress{StartedAt: t0}, all, t0)
	assert.True(t, just)
	assert.Equal(t, models.StatusCompleted, first.Status)
	if assert.NotNil(t, first.CompletedAt) {
		assert.Equal(t, t0, *first.CompletedAt)
	}

	second, just := Apply(first, all, t1)
	assert.False(t, just)
	assert.Equal(t, t0, *second.CompletedAt)
	assert.Equal(t, t1, second.LastAccessedAt)
	assert.Equal(t, t0, second.StartedAt)
}

func TestApplyKeepsScalarsUnlessSupplied(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	old := models.LessonProgress{VideoProgressPercentage: 40, QuizScore: ptr(7.5)}

	next, _ := Apply(old, models.ProgressUpdate{VideoWatched: ptr(true)}, now)
	assert.Equal(t, 40, next.VideoProgressPercentage)
	assert.Equal(t, 7.5, *next.QuizScore)

	next, _ = Apply(old, models.ProgressUpdate{VideoProgressPercentage: ptr(90), QuizScore: ptr(9.0)}, now)
	assert.Equal(t, 90, next.VideoProgressPercentage)
	assert.Equal(t, 9.0, *next.QuizScore)
	assert.Equal(t, 7.5, *old.QuizScore, "old row must not be aliased")
}

func TestApplyCompletedStaysCompleted(t *testing.T) {
	done := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	old := models.LessonProgress{
		Status:        models.StatusCompleted,
		VideoWatched:  true,
		QuizCompleted: true,
		TaskCompleted: true,
		CompletedAt:   &done,
	}

	next, just := Apply(old, models.ProgressUpdate{VideoWatched: ptr(false), QuizCompleted: ptr(false)}, done.Add(time.Minute))
	assert.False(t, just)
	assert.Equal(t, models.StatusCompleted, next.Status)
	assert.Equal(t, done, *next.CompletedAt)
}
