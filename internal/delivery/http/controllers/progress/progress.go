package progress

import (
	"LearnTrack/internal/delivery/http/controllers/apierr"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgressService interface {
	Record(ctx context.Context, upd models.ProgressUpdate) (models.LessonProgress, error)
	LessonProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(log logger.Log, service ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log, service: service}
}

type recordProgressRequest struct {
	UserID                  string   `json:"user_id" binding:"required,uuid"`
	LessonID                string   `json:"lesson_id" binding:"required,uuid"`
	VideoWatched            *bool    `json:"video_watched"`
	VideoProgressPercentage *int     `json:"video_progress_percentage" binding:"omitempty,min=0,max=100"`
	QuizCompleted           *bool    `json:"quiz_completed"`
	QuizScore               *float64 `json:"quiz_score" binding:"omitempty,min=0"`
	TaskCompleted           *bool    `json:"task_completed"`
}

func (r recordProgressRequest) update() models.ProgressUpdate {
	return models.ProgressUpdate{
		UserID:                  uuid.MustParse(r.UserID),
		LessonID:                uuid.MustParse(r.LessonID),
		VideoWatched:            r.VideoWatched,
		VideoProgressPercentage: r.VideoProgressPercentage,
		QuizCompleted:           r.QuizCompleted,
		QuizScore:               r.QuizScore,
		TaskCompleted:           r.TaskCompleted,
	}
}

// Record handles POST /progress and answers with the stored lesson progress row.
func (h *ProgressHandler) Record(c *gin.Context) {
	var req recordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BindError(c, err)
		return
	}

	p, err := h.service.Record(c.Request.Context(), req.update())
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) LessonProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson_id"})
		return
	}

	p, err := h.service.LessonProgress(c.Request.Context(), userID, lessonID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
