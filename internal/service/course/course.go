package course

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CourseLessons(ctx context.Context, userID, courseID uuid.UUID) ([]models.LessonState, error)
	ModuleLessons(ctx context.Context, userID, moduleID uuid.UUID) ([]models.LessonState, error)
	SaveCourseProgress(ctx context.Context, userID, courseID uuid.UUID, now time.Time,
		apply func(old models.CourseProgress) models.CourseProgress) (models.CourseProgress, error)
	CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error)
}

type certificateStore interface {
	Put(ctx context.Context, userID, courseID uuid.UUID, body []byte) (string, error)
	URL(ctx context.Context, userID, courseID uuid.UUID) (string, error)
}

type CourseService struct {
	log          logger.Log
	courseRepo   courseRepo
	certificates certificateStore
}

// NewCourseService builds the aggregator; certificates may be nil when object storage is off.
func NewCourseService(log logger.Log, courseRepo courseRepo, certificates certificateStore) *CourseService {
	return &CourseService{
		log:          log.With("service", "course"),
		courseRepo:   courseRepo,
		certificates: certificates,
	}
}

func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Stats counts completed lessons and finds the first incomplete one in
// learning order: module order, then lesson order, then lesson id.
func Stats(states []models.LessonState) models.LessonStats {
	ordered := make([]models.LessonState, len(states))
	copy(ordered, states)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.ModuleOrder != b.ModuleOrder {
			return a.ModuleOrder < b.ModuleOrder
		}
		if a.LessonOrder != b.LessonOrder {
			return a.LessonOrder < b.LessonOrder
		}
		return a.LessonID.String() < b.LessonID.String()
	})

	stats := models.LessonStats{Total: len(ordered)}
	for _, st := range ordered {
		if st.Completed {
			stats.Completed++
			continue
		}
		if stats.CurrentLessonID == nil {
			id := st.LessonID
			stats.CurrentLessonID = &id
		}
	}
	return stats
}

// nextCourseProgress refreshes counters from fresh stats. completed_at is
// only ever set once, the first time the course reaches 100%.
func nextCourseProgress(old models.CourseProgress, stats models.LessonStats, now time.Time) (models.CourseProgress, bool) {
	next := old
	next.LessonsCompleted = stats.Completed
	next.TotalLessons = stats.Total
	next.ProgressPercentage = Percentage(stats.Completed, stats.Total)
	next.CurrentLessonID = stats.CurrentLessonID
	next.LastAccessedAt = now

	if next.ProgressPercentage == 100 && old.CompletedAt == nil {
		completedAt := now
		next.CompletedAt = &completedAt
		return next, true
	}
	return next, false
}

// Recompute rebuilds the user's course aggregate as of now. justCompleted is
// true only on the call that first brings the course to 100%.
func (s *CourseService) Recompute(ctx context.Context, userID, courseID uuid.UUID, now time.Time) (models.CourseProgress, bool, error) {
	states, err := s.courseRepo.CourseLessons(ctx, userID, courseID)
	if err != nil {
		return models.CourseProgress{}, false, err
	}
	stats := Stats(states)

	now = now.UTC()
	var justCompleted bool
	saved, err := s.courseRepo.SaveCourseProgress(ctx, userID, courseID, now, func(old models.CourseProgress) models.CourseProgress {
		var next models.CourseProgress
		next, justCompleted = nextCourseProgress(old, stats, now)
		return next
	})
	if err != nil {
		return models.CourseProgress{}, false, err
	}

	s.log.Debug("course progress recomputed",
		"user_id", userID,
		"course_id", courseID,
		"percentage", saved.ProgressPercentage,
		"just_completed", justCompleted,
	)
	return saved, justCompleted, nil
}

// ModuleCompleted reports whether every active lesson of the module is completed.
// A module without active lessons is never complete.
func (s *CourseService) ModuleCompleted(ctx context.Context, userID, moduleID uuid.UUID) (bool, error) {
	states, err := s.courseRepo.ModuleLessons(ctx, userID, moduleID)
	if err != nil {
		return false, err
	}
	stats := Stats(states)
	return stats.Total > 0 && stats.Completed == stats.Total, nil
}

func (s *CourseService) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.courseRepo.CourseProgress(ctx, userID, courseID)
}

func certificateText(name, courseTitle string, completedAt time.Time, userID, courseID uuid.UUID) string {
	return fmt.Sprintf(
		"CERTIFICATE OF COMPLETION\n\nThis certifies that %s\nhas completed the course\n\n    %s\n\non %s.\n\nlearner: %s\ncourse: %s\n",
		name, courseTitle, completedAt.UTC().Format("2 January 2006"), userID, courseID,
	)
}

func (s *CourseService) IssueCertificate(ctx context.Context, user models.User, course models.Course, completedAt time.Time) error {
	if s.certificates == nil {
		return app_errors.ErrStorageDisabled
	}

	body := certificateText(user.DisplayName(), course.Title, completedAt, user.ID, course.ID)
	key, err := s.certificates.Put(ctx, user.ID, course.ID, []byte(body))
	if err != nil {
		return err
	}
	s.log.Info("certificate issued", "user_id", user.ID, "course_id", course.ID, "object_key", key)
	return nil
}

func (s *CourseService) Certificate(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	if s.certificates == nil {
		return nil, app_errors.ErrStorageDisabled
	}

	progress, err := s.CourseProgress(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrProgressNotFound) {
			return nil, app_errors.ErrCourseNotCompleted
		}
		return nil, err
	}
	if progress.CompletedAt == nil {
		return nil, app_errors.ErrCourseNotCompleted
	}

	url, err := s.certificates.URL(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &models.Certificate{
		UserID:      userID,
		CourseID:    courseID,
		URL:         url,
		CompletedAt: *progress.CompletedAt,
	}, nil
}
