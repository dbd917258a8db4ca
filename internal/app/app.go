package app

import (
	"LearnTrack/internal/app/server"
	"LearnTrack/internal/config"
	"LearnTrack/internal/delivery/http"
	"LearnTrack/internal/models"
	"LearnTrack/internal/notification"
	"LearnTrack/internal/service"
	"LearnTrack/internal/service/activity"
	"LearnTrack/internal/service/badge"
	"LearnTrack/internal/service/course"
	"LearnTrack/internal/service/progress"
	"LearnTrack/internal/service/xp"
	"LearnTrack/internal/storage/elastic"
	"LearnTrack/internal/storage/minio_storage"
	"LearnTrack/internal/storage/postgres"
	"LearnTrack/internal/storage/redis"
	"LearnTrack/pkg/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
)

type leaderboardStore interface {
	SetTotal(ctx context.Context, userID uuid.UUID, totalXP int) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (models.LeaderboardEntry, bool, error)
}

type activityStore interface {
	Index(ctx context.Context, event models.ActivityEvent) error
	ByUser(ctx context.Context, userID uuid.UUID, size int) ([]models.ActivityEvent, error)
}

type certificateStore interface {
	Put(ctx context.Context, userID, courseID uuid.UUID, body []byte) (string, error)
	URL(ctx context.Context, userID, courseID uuid.UUID) (string, error)
}

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("starting learntrack", "env", cfg.Env, "address", cfg.HTTPServer.Address)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	if cfg.Postgres.Migrate {
		if err := pg.Migrate(); err != nil {
			log.FatalErr("error applying migrations", err)
		}
	}

	board := newLeaderboard(cfg.Redis, log)
	activityRepo := newActivityStore(cfg.ES, log)
	certificates := newCertificateStore(cfg.Minio, log)

	sender, err := newSender(context.Background(), cfg.Notifier, log)
	if err != nil {
		log.FatalErr("error configuring notifier", err)
	}

	lessonRepo := postgres.NewLessonPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)

	xpService := xp.NewXPService(log, postgres.NewXPPostgres(pg.Pool), board)
	courseService := course.NewCourseService(log, courseRepo, certificates)
	badgeService := badge.NewBadgeService(log, postgres.NewBadgePostgres(pg.Pool))
	activityService := activity.NewActivityService(log, activityRepo)

	progressService := progress.NewProgressService(log, progress.Deps{
		Tx:       pg,
		Lessons:  lessonRepo,
		Courses:  courseRepo,
		Users:    postgres.NewUserPostgres(pg.Pool),
		Progress: postgres.NewProgressPostgres(pg.Pool),
		XP:       xpService,
		Course:   courseService,
		Badges:   badgeService,
		Notifier: notification.NewDispatcher(log, sender),
		Activity: activityService,
	})

	u := service.Collection{
		ProgressService: progressService,
		CourseService:   courseService,
		XPService:       xpService,
		BadgeService:    badgeService,
		ActivityService: activityService,
	}

	r := http.InitRoutes(log, u, pg, cfg.CORS.AllowOrigins)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal", "signal", s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("http server shutdown", err)
	}
}

// newLeaderboard returns nil when redis is unreachable; XP still lands in postgres.
func newLeaderboard(cfg config.Redis, log logger.Log) leaderboardStore {
	if cfg.Addr == "" {
		return nil
	}
	rdb, err := redis.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		log.Warn("leaderboard disabled", "redis_addr", cfg.Addr, "error", err.Error())
		return nil
	}
	return redis.NewLeaderboard(rdb, cfg.LeaderboardKey)
}

func newActivityStore(cfg config.ES, log logger.Log) activityStore {
	if !cfg.Enabled {
		return nil
	}
	client, err := elastic.NewElasticClient(cfg.Password, cfg.Hosts)
	if err != nil {
		log.Warn("activity log disabled", "error", err.Error())
		return nil
	}
	repo := elastic.NewActivityRepository(client, cfg.Index)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.CreateIndexIfNotExist(ctx); err != nil {
		log.Warn("activity log disabled", "index", cfg.Index, "error", err.Error())
		return nil
	}
	return repo
}

func newCertificateStore(cfg config.Minio, log logger.Log) certificateStore {
	if !cfg.Enabled {
		return nil
	}
	storage, err := minio_storage.NewMinioStorage(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.UseSSL)
	if err != nil {
		log.Warn("certificates disabled", "error", err.Error())
		return nil
	}
	bucket := cfg.Bucket(config.CertificatesBucket)
	certs, err := minio_storage.NewCertificateStorage(storage, bucket.Name, bucket.PresignTTL)
	if err != nil {
		log.Warn("certificates disabled", "bucket", bucket.Name, "error", err.Error())
		return nil
	}
	return certs
}

func newSender(ctx context.Context, cfg config.Notifier, log logger.Log) (notification.Sender, error) {
	switch cfg.Provider {
	case "", "log":
		return notification.NewLogSender(log), nil
	case "sendgrid":
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider needs SENDGRID_API_KEY")
		}
		return notification.NewSendgridSender(cfg.SendgridAPIKey, cfg.FromName, cfg.FromEmail), nil
	case "ses":
		return notification.NewSESSender(ctx, cfg.AWSRegion, cfg.FromName, cfg.FromEmail)
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Provider)
	}
}
