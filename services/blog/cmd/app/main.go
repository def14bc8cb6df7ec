package main

import (
	"blog-api/pkg/cache"
	"blog-api/pkg/config"
	"blog-api/pkg/database"
	"blog-api/pkg/logger"
	"blog-api/pkg/queue"
	"blog-api/pkg/s3"
	blogApp "blog-api/services/blog/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Blog API
// @version         1.0
// @description     Posts, categories, comments and likes with cached post detail

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.New()
	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	// Without Redis the detail cache is bypassed and rate limiting is off
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	var queueClient *queue.Client
	if cfg.QueueEnabled() {
		queueClient, err = queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
			queueClient = nil
		}
	}

	var s3Client *s3.Client
	if cfg.S3Enabled() {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to initialize S3: %v (cover uploads disabled)", err)
			s3Client = nil
		}
	}

	blogApp.Run(cfg, log, db, redisClient, queueClient, s3Client)
}
