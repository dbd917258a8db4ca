package learner

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/delivery/http/controllers/apierr"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type XPService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*models.XPSummary, error)
	Ledger(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPLedgerEntry, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	LeaderboardRank(ctx context.Context, userID uuid.UUID) (models.LeaderboardEntry, bool, error)
}

type BadgeService interface {
	UserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error)
}

type ActivityService interface {
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityEvent, error)
}

// LearnerHandler serves the read side of a learner's gamification state.
type LearnerHandler struct {
	log      logger.Log
	xp       XPService
	badges   BadgeService
	activity ActivityService
}

func NewLearnerHandler(log logger.Log, xp XPService, badges BadgeService, activity ActivityService) *LearnerHandler {
	return &LearnerHandler{
		log:      log,
		xp:       xp,
		badges:   badges,
		activity: activity,
	}
}

func (h *LearnerHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *LearnerHandler) limit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return v, true
}

// XP returns the summary and the most recent ledger entries. A learner who
// never earned XP gets a zero summary at level 1.
func (h *LearnerHandler) XP(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	limit, ok := h.limit(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	summary, err := h.xp.Summary(ctx, userID)
	if errors.Is(err, app_errors.ErrXPSummaryNotFound) {
		summary, err = &models.XPSummary{UserID: userID, CurrentLevel: 1}, nil
	}
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	ledger, err := h.xp.Ledger(ctx, userID, limit)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	if ledger == nil {
		ledger = []models.XPLedgerEntry{}
	}

	resp := gin.H{"summary": summary, "ledger": ledger}
	if entry, ranked, err := h.xp.LeaderboardRank(ctx, userID); err != nil {
		h.log.ErrorErr("leaderboard rank lookup failed", err, "user_id", userID)
	} else if ranked {
		resp["rank"] = entry.Rank
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LearnerHandler) Badges(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	badges, err := h.badges.UserBadges(c.Request.Context(), userID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	if badges == nil {
		badges = []models.UserBadge{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (h *LearnerHandler) Activity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	events, err := h.activity.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *LearnerHandler) Leaderboard(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	entries, err := h.xp.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
