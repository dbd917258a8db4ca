package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BadgeLessonsCompleted = "lessons_completed"
	BadgeCoursesCompleted = "courses_completed"
	BadgeTotalXP          = "total_xp"
)

// Badge is a milestone rule: awarded once Criteria's counter reaches Threshold.
type Badge struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Criteria    string    `json:"criteria"`
	Threshold   int       `json:"threshold"`
}

type UserBadge struct {
	Badge
	UserID    uuid.UUID `json:"user_id"`
	AwardedAt time.Time `json:"awarded_at"`
}

// BadgeCounters are the user's cumulative totals the rules are evaluated against.
type BadgeCounters struct {
	LessonsCompleted int
	CoursesCompleted int
	TotalXP          int
}

func (c BadgeCounters) Value(criteria string) (int, bool) {
	switch criteria {
	case BadgeLessonsCompleted:
		return c.LessonsCompleted, true
	case BadgeCoursesCompleted:
		return c.CoursesCompleted, true
	case BadgeTotalXP:
		return c.TotalXP, true
	}
	return 0, false
}
