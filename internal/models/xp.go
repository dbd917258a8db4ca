package models

import (
	"time"

	"github.com/google/uuid"
)

const XPSourceLesson = "lesson"

type XPLedgerEntry struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Amount      int        `json:"amount"`
	SourceType  string     `json:"source_type"`
	SourceID    *uuid.UUID `json:"source_id"`
	Description string     `json:"description"`
	EarnedAt    time.Time  `json:"earned_at"`
}

type XPSummary struct {
	UserID           uuid.UUID `json:"user_id"`
	TotalXP          int       `json:"total_xp"`
	CurrentLevel     int       `json:"current_level"`
	XPToNextLevel    int       `json:"xp_to_next_level"`
	LastCalculatedAt time.Time `json:"last_calculated_at"`
}

type LevelDefinition struct {
	LevelNumber int    `json:"level_number"`
	XPRequired  int    `json:"xp_required"`
	LevelName   string `json:"level_name"`
	BadgeIcon   string `json:"badge_icon"`
}

type LeaderboardEntry struct {
	Rank    int64     `json:"rank"`
	UserID  uuid.UUID `json:"user_id"`
	TotalXP int64     `json:"total_xp"`
}
