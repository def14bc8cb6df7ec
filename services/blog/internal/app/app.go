package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-api/pkg/cache"
	"blog-api/pkg/config"
	"blog-api/pkg/jwt"
	"blog-api/pkg/logger"
	"blog-api/pkg/middleware"
	"blog-api/pkg/queue"
	"blog-api/pkg/s3"
	blogHTTP "blog-api/services/blog/internal/controller/http"
	"blog-api/services/blog/internal/repo/persistent"
	"blog-api/services/blog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "blog-api/services/blog/docs" // Swagger docs
)

// Deps are the collaborators the router is built from. Redis, Notifier and
// Uploader may be nil; Store must not be.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Store    cache.Store
	Notifier usecase.Notifier
	Uploader usecase.CoverUploader
}

func NewRouter(d Deps) *gin.Engine {
	cfg, log := d.Config, d.Logger
	jwtService := jwt.NewService(cfg.JWTSecret).WithLifetimes(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	readThrough := cache.NewReadThrough(d.Store, cfg.PostCacheTTL, log)

	// Initialize repositories
	postRepo := persistent.NewPostRepository(d.DB)
	voteRepo := persistent.NewVoteRepository(d.DB)
	commentRepo := persistent.NewCommentRepository(d.DB)
	categoryRepo := persistent.NewCategoryRepository(d.DB)
	userRepo := persistent.NewUserRepository(d.DB)

	// Initialize use cases
	ledger := usecase.NewVoteLedger(voteRepo, postRepo, readThrough, d.Notifier, log)
	postUseCase := usecase.NewPostUseCase(postRepo, ledger, readThrough, d.Uploader, log)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, d.Notifier, log)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, log)
	authUseCase := usecase.NewAuthUseCase(userRepo, postRepo, voteRepo, jwtService, readThrough, log)

	// Initialize HTTP handlers
	postHandler := blogHTTP.NewPostHandler(postUseCase, log)
	voteHandler := blogHTTP.NewVoteHandler(ledger, postUseCase, log)
	commentHandler := blogHTTP.NewCommentHandler(commentUseCase, log)
	categoryHandler := blogHTTP.NewCategoryHandler(categoryUseCase, log)
	authHandler := blogHTTP.NewAuthHandler(authUseCase, log)

	r := gin.Default()
	r.Use(middleware.RequestID())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
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

	api := r.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(d.Redis, "api", cfg.RateLimitPerMinute, time.Minute, log))

	auth := middleware.AuthMiddleware(jwtService)

	// Accounts
	{
		api.POST("/register/", authHandler.Register)
		api.POST("/token/", authHandler.ObtainToken)
		api.POST("/token/refresh/", authHandler.RefreshToken)
		api.GET("/me/", auth, authHandler.Me)
		api.DELETE("/me/", auth, authHandler.DeleteAccount)
	}

	// Categories
	{
		admin := middleware.RequireRole(middleware.RoleAdmin)
		api.GET("/categories/", categoryHandler.ListCategories)
		api.POST("/categories/", auth, admin, categoryHandler.CreateCategory)
		api.DELETE("/categories/:id/", auth, admin, categoryHandler.DeleteCategory)
	}

	// Posts
	{
		detailThrottle := middleware.RateLimitMiddleware(d.Redis, "post_detail", cfg.DetailThrottle, time.Minute, log)

		api.GET("/posts/", postHandler.ListPosts)
		api.POST("/posts/", auth, postHandler.CreatePost)
		api.GET("/post/:id/", detailThrottle, postHandler.GetPost)

		edit := api.Group("/post_edit/:id", auth)
		edit.GET("/", postHandler.GetEditablePost)
		edit.PUT("/", postHandler.UpdatePost)
		edit.PATCH("/", postHandler.UpdatePost)
		edit.DELETE("/", postHandler.DeletePost)
		edit.POST("/cover/", postHandler.UploadCover)
	}

	// Votes and comments
	{
		api.POST("/post/:id/like/", auth, voteHandler.CastVote)
		api.GET("/post/:id/likes_count/", voteHandler.GetRating)

		api.GET("/post/:id/comments/", commentHandler.ListComments)
		api.POST("/post/:id/comments/", auth, commentHandler.CreateComment)
		api.GET("/post/:id/comment_edit/:comment_id/", auth, commentHandler.GetComment)
		api.PUT("/post/:id/comment_edit/:comment_id/", auth, commentHandler.UpdateComment)
		api.PATCH("/post/:id/comment_edit/:comment_id/", auth, commentHandler.UpdateComment)
		api.DELETE("/post/:id/comment_edit/:comment_id/", auth, commentHandler.DeleteComment)
	}

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, s3Client *s3.Client) {
	deps := Deps{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  redisClient,
		Store:  cache.NopStore{},
	}
	if redisClient != nil {
		deps.Store = cache.NewRedisStore(redisClient)
	}
	// Assign only non-nil clients so the interfaces stay nil when disabled.
	if queueClient != nil {
		deps.Notifier = queueClient
	}
	if s3Client != nil {
		deps.Uploader = s3Client
	}

	r := NewRouter(deps)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Blog service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down blog service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}
}
