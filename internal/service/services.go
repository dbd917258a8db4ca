package service

import (
	"LearnTrack/internal/service/activity"
	"LearnTrack/internal/service/badge"
	"LearnTrack/internal/service/course"
	"LearnTrack/internal/service/progress"
	"LearnTrack/internal/service/xp"
)

type Collection struct {
	*progress.ProgressService
	*course.CourseService
	*xp.XPService
	*badge.BadgeService
	*activity.ActivityService
}
