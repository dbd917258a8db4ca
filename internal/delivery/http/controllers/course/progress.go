package course

import (
	"LearnTrack/internal/delivery/http/controllers/apierr"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseService interface {
	CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error)
	Certificate(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
}

type CourseHandler struct {
	log     logger.Log
	service CourseService
}

func NewCourseHandler(log logger.Log, s CourseService) *CourseHandler {
	return &CourseHandler{
		log:     log,
		service: s,
	}
}

func parseIDs(c *gin.Context) (userID, courseID uuid.UUID, ok bool) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return uuid.Nil, uuid.Nil, false
	}
	courseID, err = uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, courseID, true
}

func (h *CourseHandler) CourseProgress(c *gin.Context) {
	userID, courseID, ok := parseIDs(c)
	if !ok {
		return
	}

	p, err := h.service.CourseProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Certificate returns a short-lived download link for a completed course.
func (h *CourseHandler) Certificate(c *gin.Context) {
	userID, courseID, ok := parseIDs(c)
	if !ok {
		return
	}

	cert, err := h.service.Certificate(c.Request.Context(), userID, courseID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}
