package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"blog-api/pkg/config"
	"blog-api/pkg/jwt"
	"blog-api/pkg/logger"
	"blog-api/pkg/middleware"
	"blog-api/pkg/queue"
	notificationHTTP "blog-api/services/notification/internal/controller/http"
	"blog-api/services/notification/internal/repo/persistent"
	"blog-api/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "blog-api/services/notification/docs" // Swagger docs
)

func NewRouter(cfg *config.Config, log *logger.Logger, notificationUseCase usecase.NotificationUseCase) *gin.Engine {
	jwtService := jwt.NewService(cfg.JWTSecret).WithLifetimes(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)

	r := gin.Default()
	r.Use(middleware.RequestID())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := r.Group("/api/notifications")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/", notificationHandler.GetNotifications)
		protected.POST("/read_all/", notificationHandler.MarkAllRead)
		protected.POST("/:id/read/", notificationHandler.MarkRead)
	}

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, queueClient *queue.Client) {
	notificationRepo := persistent.NewNotificationRepository(db)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, log)

	srv := &http.Server{
		Addr:              ":" + cfg.NotifierPort,
		Handler:           NewRouter(cfg, log, notificationUseCase),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Start processing the notification queue in a goroutine
	if queueClient != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Starting notification queue processor...")
			if err := queueClient.ConsumeNotificationTasks(ctx, cfg.NotifierPrefetch, notificationUseCase.HandleTask); err != nil {
				log.Error("Notification queue processor stopped: %v", err)
			}
		}()
	} else {
		log.Warn("RabbitMQ is not configured, serving stored notifications only")
	}

	go func() {
		log.Info("Notification service starting on port %s", cfg.NotifierPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	stop()
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}
}
