package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monadtok/pkg/cache"
	"monadtok/pkg/chain"
	"monadtok/pkg/config"
	"monadtok/pkg/database"
	"monadtok/pkg/flow"
	"monadtok/pkg/jwt"
	"monadtok/pkg/logger"
	"monadtok/pkg/middleware"
	"monadtok/pkg/queue"
	"monadtok/pkg/s3"
	subscriptionHTTP "monadtok/services/subscription/internal/controller/http"
	"monadtok/services/subscription/internal/repo/blockchain"
	"monadtok/services/subscription/internal/repo/persistent"
	"monadtok/services/subscription/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "monadtok/services/subscription/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	chainClient *chain.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Redis backs the deploy/withdraw in-flight guards
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	chainClient, err := chain.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to chain RPC: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		chainClient: chainClient,
		queueClient: queueClient,
		jwtService:  jwtService,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	deploymentRepo := persistent.NewDeploymentRepository(a.db)
	profileRepo := persistent.NewProfileRepository(a.db)

	oracle, err := blockchain.NewOracle(a.chainClient, a.cfg.FactoryAddress)
	if err != nil {
		a.log.Error("Failed to bind factory contract: %v", err)
		return err
	}

	// A deploy can take a while on a congested chain; the guard TTL has to
	// outlive the slowest honest flow
	guard := flow.NewGuard(a.redisClient, 10*time.Minute)

	// Initialize use cases
	subscriptionUseCase := usecase.NewSubscriptionUseCase(
		deploymentRepo,
		profileRepo,
		oracle,
		a.s3Client,
		guard,
		a.queueClient,
		a.log,
	)

	// Initialize HTTP handlers
	subscriptionHandler := subscriptionHTTP.NewSubscriptionHandler(subscriptionUseCase, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))

	{
		api.GET("/subscriptions/:contract", middleware.OptionalAuthMiddleware(a.jwtService), subscriptionHandler.GetDetails)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/subscriptions/deploy", subscriptionHandler.Deploy)
			protected.POST("/subscriptions/:contract/mint", subscriptionHandler.ConfirmMint)
			protected.GET("/earnings", subscriptionHandler.GetEarnings)
			protected.POST("/earnings/withdraw", subscriptionHandler.Withdraw)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Subscription service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down subscription service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		a.queueClient.Close()
	}

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Subscription service exited")
	return nil
}
