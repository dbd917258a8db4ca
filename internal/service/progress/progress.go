package progress

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sideEffectTimeout = 5 * time.Second

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	ModuleByID(ctx context.Context, id uuid.UUID) (*models.Module, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type progressRepo interface {
	RecordLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, now time.Time,
		apply func(old models.LessonProgress) models.LessonProgress) (models.LessonProgress, error)
	LessonProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error)
}

type xpUpdater interface {
	Grant(ctx context.Context, userID uuid.UUID, lesson models.Lesson, now time.Time) (models.XPSummary, bool, error)
	PublishTotal(ctx context.Context, summary models.XPSummary) error
}

type aggregator interface {
	Recompute(ctx context.Context, userID, courseID uuid.UUID, now time.Time) (models.CourseProgress, bool, error)
	ModuleCompleted(ctx context.Context, userID, moduleID uuid.UUID) (bool, error)
	IssueCertificate(ctx context.Context, user models.User, course models.Course, completedAt time.Time) error
}

type badgeChecker interface {
	EvaluateAndAward(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
}

type notifier interface {
	SendLessonCompletion(ctx context.Context, to, name, lessonTitle, courseTitle string) error
	SendModuleCompletion(ctx context.Context, to, name, moduleTitle, courseTitle string) error
	SendCourseCompletion(ctx context.Context, to, name, courseTitle string) error
}

type activityLog interface {
	Log(ctx context.Context, event models.ActivityEvent) error
}

type Deps struct {
	Tx       transactor
	Lessons  lessonRepo
	Courses  courseRepo
	Users    userRepo
	Progress progressRepo
	XP       xpUpdater
	Course   aggregator
	Badges   badgeChecker
	Notifier notifier
	Activity activityLog
}

type ProgressService struct {
	log logger.Log
	Deps
	now func() time.Time
}

func NewProgressService(log logger.Log, deps Deps) *ProgressService {
	return &ProgressService{
		log:  log.With("service", "progress"),
		Deps: deps,
		now:  time.Now,
	}
}

// outcome is what the primary transaction produced; side effects are derived from it.
type outcome struct {
	progress            models.LessonProgress
	lessonJustCompleted bool
	xp                  models.XPSummary
	xpAwarded           bool
	course              models.CourseProgress
	courseJustCompleted bool
	moduleJustCompleted bool
}

func Validate(upd models.ProgressUpdate) error {
	if upd.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id is required", app_errors.ErrInvalidProgress)
	}
	if upd.LessonID == uuid.Nil {
		return fmt.Errorf("%w: lesson_id is required", app_errors.ErrInvalidProgress)
	}
	if p := upd.VideoProgressPercentage; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("%w: video_progress_percentage must be between 0 and 100", app_errors.ErrInvalidProgress)
	}
	if s := upd.QuizScore; s != nil && *s < 0 {
		return fmt.Errorf("%w: quiz_score must not be negative", app_errors.ErrInvalidProgress)
	}
	return nil
}

// Record stores one activity report and runs everything that follows from it.
// XP, course aggregate and the progress row commit together; badges,
// notifications, the leaderboard and the activity log are best-effort.
func (s *ProgressService) Record(ctx context.Context, upd models.ProgressUpdate) (models.LessonProgress, error) {
	if err := Validate(upd); err != nil {
		return models.LessonProgress{}, err
	}

	lesson, err := s.Lessons.LessonByID(ctx, upd.LessonID)
	if err != nil {
		return models.LessonProgress{}, err
	}

	now := s.now().UTC()
	var out outcome

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		out = outcome{}

		out.progress, err = s.Progress.RecordLessonProgress(ctx, upd.UserID, upd.LessonID, now,
			func(old models.LessonProgress) models.LessonProgress {
				next, just := Apply(old, upd, now)
				out.lessonJustCompleted = just
				return next
			})
		if err != nil {
			return err
		}

		if out.lessonJustCompleted {
			out.xp, out.xpAwarded, err = s.XP.Grant(ctx, upd.UserID, *lesson, now)
			if err != nil {
				return err
			}
		}

		out.course, out.courseJustCompleted, err = s.Course.Recompute(ctx, upd.UserID, lesson.CourseID, now)
		if err != nil {
			return err
		}

		// an inactive lesson never counts, so finishing it cannot finish its module
		if out.lessonJustCompleted && lesson.IsActive {
			out.moduleJustCompleted, err = s.Course.ModuleCompleted(ctx, upd.UserID, lesson.ModuleID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.LessonProgress{}, err
	}

	s.log.Info("lesson progress recorded",
		"user_id", upd.UserID,
		"lesson_id", upd.LessonID,
		"status", out.progress.Status,
		"just_completed", out.lessonJustCompleted,
		"course_percentage", out.course.ProgressPercentage,
	)

	s.afterCommit(ctx, *lesson, out)

	return out.progress, nil
}

// afterCommit runs the side effects. None of them can fail the request.
// Lesson effects follow a just-completed lesson; course effects follow a
// just-completed course, which can also happen when no lesson changed.
func (s *ProgressService) afterCommit(ctx context.Context, lesson models.Lesson, out outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	userID := out.progress.UserID
	log := s.log.With("user_id", userID, "lesson_id", lesson.ID)

	s.logActivity(ctx, log, lesson, out)

	if !out.lessonJustCompleted && !out.courseJustCompleted {
		return
	}

	if out.xpAwarded && s.XP != nil {
		if err := s.XP.PublishTotal(ctx, out.xp); err != nil {
			log.ErrorErr("leaderboard update failed", err)
		}
	}

	if s.Badges != nil {
		if _, err := s.Badges.EvaluateAndAward(ctx, userID); err != nil {
			log.ErrorErr("badge evaluation failed", err)
		}
	}

	user, err := s.Users.UserByID(ctx, userID)
	if err != nil {
		log.Warn("no learner profile, skipping completion notifications", "error", err.Error())
		return
	}
	course, err := s.Courses.CourseByID(ctx, lesson.CourseID)
	if err != nil {
		log.ErrorErr("course lookup for notifications failed", err)
		return
	}

	if out.courseJustCompleted && out.course.CompletedAt != nil {
		if err := s.Course.IssueCertificate(ctx, *user, *course, *out.course.CompletedAt); err != nil {
			log.ErrorErr("certificate issue failed", err, "course_id", course.ID)
		}
	}

	if s.Notifier == nil {
		return
	}

	if out.lessonJustCompleted {
		if err := s.Notifier.SendLessonCompletion(ctx, user.Email, user.DisplayName(), lesson.LessonTitle, course.Title); err != nil {
			log.ErrorErr("lesson completion notification failed", err)
		}
	}

	if out.moduleJustCompleted {
		module, err := s.Lessons.ModuleByID(ctx, lesson.ModuleID)
		if err != nil {
			log.ErrorErr("module lookup for notifications failed", err)
		} else if err := s.Notifier.SendModuleCompletion(ctx, user.Email, user.DisplayName(), module.Title, course.Title); err != nil {
			log.ErrorErr("module completion notification failed", err)
		}
	}

	if out.courseJustCompleted {
		if err := s.Notifier.SendCourseCompletion(ctx, user.Email, user.DisplayName(), course.Title); err != nil {
			log.ErrorErr("course completion notification failed", err)
		}
	}
}

func (s *ProgressService) logActivity(ctx context.Context, log logger.Log, lesson models.Lesson, out outcome) {
	if s.Activity == nil {
		return
	}

	events := []models.ActivityEvent{{
		Type:      models.ActivityLessonProgress,
		Status:    out.progress.Status,
		XPAwarded: 0,
	}}
	if out.lessonJustCompleted {
		events[0].Type = models.ActivityLessonCompleted
		if out.xpAwarded {
			events[0].XPAwarded = lesson.XPReward
		}
	}
	if out.courseJustCompleted {
		events = append(events, models.ActivityEvent{Type: models.ActivityCourseCompleted, Status: models.StatusCompleted})
	}

	for _, e := range events {
		e.ID = uuid.New()
		e.UserID = out.progress.UserID
		e.LessonID = lesson.ID
		e.CourseID = lesson.CourseID
		e.OccurredAt = out.progress.LastAccessedAt
		if err := s.Activity.Log(ctx, e); err != nil {
			log.ErrorErr("activity log failed", err, "type", e.Type)
		}
	}
}

func (s *ProgressService) LessonProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	if _, err := s.Lessons.LessonByID(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.Progress.LessonProgress(ctx, userID, lessonID)
}
