package http

import (
	"LearnTrack/internal/delivery/http/controllers"
	"LearnTrack/internal/delivery/http/controllers/apierr"
	"LearnTrack/internal/delivery/http/controllers/course"
	"LearnTrack/internal/delivery/http/controllers/learner"
	"LearnTrack/internal/delivery/http/controllers/middleware"
	"LearnTrack/internal/delivery/http/controllers/progress"
	"LearnTrack/internal/service"
	"LearnTrack/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func InitRoutes(l logger.Log, u service.Collection, db controllers.Pinger, allowOrigins []string) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		apierr.JSONTagName(v)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler(db)
	progressController := progress.NewProgressHandler(l, u.ProgressService)
	courseController := course.NewCourseHandler(l, u.CourseService)
	learnerController := learner.NewLearnerHandler(l, u.XPService, u.BadgeService, u.ActivityService)

	logging := middleware.LoggingMiddleware(l)

	r.POST("/progress", logging, progressController.Record)

	v1 := r.Group("/v1", logging)
	{
		v1.GET("/status", statusController.Status)
		v1.GET("/healthz", statusController.Healthz)

		v1.POST("/progress", progressController.Record)
		v1.GET("/leaderboard", learnerController.Leaderboard)

		users := v1.Group("/users/:user_id")
		{
			users.GET("/lessons/:lesson_id/progress", progressController.LessonProgress)
			users.GET("/courses/:course_id/progress", courseController.CourseProgress)
			users.GET("/courses/:course_id/certificate", courseController.Certificate)
			users.GET("/xp", learnerController.XP)
			users.GET("/badges", learnerController.Badges)
			users.GET("/activity", learnerController.Activity)
		}
	}
	return r
}
