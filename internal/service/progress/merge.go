package progress

import (
	"LearnTrack/internal/models"
	"time"
)

// MergeFlags ORs each supplied flag into the stored one. A flag that is true
// stays true whatever later reports say.
func MergeFlags(old models.ProgressFlags, upd models.ProgressUpdate) models.ProgressFlags {
	merged := old
	if upd.VideoWatched != nil {
		merged.VideoWatched = merged.VideoWatched || *upd.VideoWatched
	}
	if upd.QuizCompleted != nil {
		merged.QuizCompleted = merged.QuizCompleted || *upd.QuizCompleted
	}
	if upd.TaskCompleted != nil {
		merged.TaskCompleted = merged.TaskCompleted || *upd.TaskCompleted
	}
	return merged
}

func DeriveStatus(f models.ProgressFlags) models.ProgressStatus {
	switch {
	case f.VideoWatched && f.QuizCompleted && f.TaskCompleted:
		return models.StatusCompleted
	case f.VideoWatched || f.QuizCompleted || f.TaskCompleted:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}

// Apply folds one report into the stored row. justCompleted is true only on
// the report that first sets completed_at.
func Apply(old models.LessonProgress, upd models.ProgressUpdate, now time.Time) (next models.LessonProgress, justCompleted bool) {
	next = old

	flags := MergeFlags(old.Flags(), upd)
	next.VideoWatched = flags.VideoWatched
	next.QuizCompleted = flags.QuizCompleted
	next.TaskCompleted = flags.TaskCompleted

	if upd.VideoProgressPercentage != nil {
		next.VideoProgressPercentage = *upd.VideoProgressPercentage
	}
	if upd.QuizScore != nil {
		score := *upd.QuizScore
		next.QuizScore = &score
	}

	next.Status = DeriveStatus(flags)
	if next.Status == models.StatusCompleted && old.CompletedAt == nil {
		completedAt := now
		next.CompletedAt = &completedAt
		justCompleted = true
	}
	next.LastAccessedAt = now

	return next, justCompleted
}
