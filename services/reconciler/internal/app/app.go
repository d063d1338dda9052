package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monadtok/pkg/chain"
	"monadtok/pkg/config"
	"monadtok/pkg/database"
	"monadtok/pkg/logger"
	"monadtok/pkg/queue"
	"monadtok/services/reconciler/internal/repo/persistent"
	"monadtok/services/reconciler/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "monadtok/services/reconciler/docs" // Swagger docs
)

const sweepInterval = time.Minute

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	chainClient *chain.Client
	queueClient *queue.Client
	httpServer  *http.Server
	stopSweeper context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	chainClient, err := chain.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to chain RPC: %v", err)
		return nil, err
	}

	// The periodic sweep alone covers lost tasks, so a missing broker is
	// degraded operation rather than a startup failure
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (sweep-only mode)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		chainClient: chainClient,
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	deploymentRepo := persistent.NewDeploymentRepository(a.db)
	profileRepo := persistent.NewProfileRepository(a.db)

	factory, err := chain.NewFactory(a.cfg.FactoryAddress, a.chainClient)
	if err != nil {
		a.log.Error("Failed to bind factory contract: %v", err)
		return err
	}

	// Initialize use cases
	reconcilerUseCase := usecase.NewReconcilerUseCase(deploymentRepo, profileRepo, factory, a.log)

	sweepCtx, cancel := context.WithCancel(context.Background())
	a.stopSweeper = cancel

	if a.queueClient != nil {
		err := a.queueClient.ConsumeReconcileTasks(func(task map[string]interface{}) error {
			deploymentID, ok := task["deployment_id"].(string)
			if !ok || deploymentID == "" {
				a.log.Warn("Dropping reconcile task without deployment_id: %+v", task)
				return nil
			}
			return reconcilerUseCase.Reconcile(sweepCtx, deploymentID)
		})
		if err != nil {
			a.log.Error("Failed to start reconcile consumer: %v", err)
			return err
		}
	}

	go a.runSweeper(sweepCtx, reconcilerUseCase)

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
		status := gin.H{"status": "ok"}
		if a.queueClient != nil {
			if pending, err := a.queueClient.GetQueueLength(); err == nil {
				status["queue_depth"] = pending
			}
		}
		c.JSON(200, status)
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Reconciler service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) runSweeper(ctx context.Context, reconcilerUseCase usecase.ReconcilerUseCase) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			repaired, err := reconcilerUseCase.Sweep(ctx)
			if err != nil {
				a.log.Error("Sweep failed: %v", err)
				continue
			}
			if repaired > 0 {
				a.log.Info("Sweep repaired %d deployments", repaired)
			}
		}
	}
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down reconciler service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.stopSweeper != nil {
		a.stopSweeper()
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		a.queueClient.Close()
	}

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Reconciler service exited")
	return nil
}
