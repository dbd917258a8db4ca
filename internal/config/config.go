package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	CORS       CORS       `yaml:"cors"`
	Postgres   Postgres   `yaml:"postgres"`
	Redis      Redis      `yaml:"redis"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	Notifier   Notifier   `yaml:"notifier"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allow_origins" env-default:"http://localhost:5173"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
	Migrate  bool   `yaml:"migrate" env:"POSTGRES_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr           string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password       string `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int    `yaml:"db" env-default:"0"`
	LeaderboardKey string `yaml:"leaderboard_key" env-default:"leaderboard:xp"`
}

type ES struct {
	Enabled  bool     `yaml:"enabled" env:"ELASTIC_ENABLED"`
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"learning-activity"`
	Password string   `yaml:"password" env:"ELASTIC_PASSWORD"`
}

type Minio struct {
	Enabled   bool                    `yaml:"enabled" env:"MINIO_ENABLED"`
	Endpoint  string                  `yaml:"endpoint" env-default:"minio:9000"`
	AccessKey string                  `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string                  `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool                    `yaml:"use_ssl"`
	Buckets   map[string]BucketConfig `yaml:"buckets"`
}

type BucketConfig struct {
	Name       string        `yaml:"name"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

const CertificatesBucket = "certificates"

// Notifier selects the transport for completion messages: "log", "sendgrid" or "ses".
type Notifier struct {
	Provider       string `yaml:"provider" env:"NOTIFIER_PROVIDER" env-default:"log"`
	FromEmail      string `yaml:"from_email" env:"NOTIFIER_FROM_EMAIL"`
	FromName       string `yaml:"from_name" env-default:"LearnTrack"`
	SendgridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	AWSRegion      string `yaml:"aws_region" env:"AWS_REGION" env-default:"us-east-1"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	switch cfg.Notifier.Provider {
	case "log", "sendgrid", "ses":
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Notifier.Provider)
	}

	return &cfg, nil
}

// Bucket returns the named bucket config, falling back to the key as bucket name.
func (m Minio) Bucket(key string) BucketConfig {
	bc, ok := m.Buckets[key]
	if !ok || bc.Name == "" {
		bc.Name = key
	}
	if bc.PresignTTL == 0 {
		bc.PresignTTL = 15 * time.Minute
	}
	return bc
}
