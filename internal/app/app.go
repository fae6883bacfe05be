package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/auth"
	"esg-dashboard/ghg-backend/internal/config"
	"esg-dashboard/ghg-backend/internal/database"
	"esg-dashboard/ghg-backend/internal/ghg"
	"esg-dashboard/ghg-backend/internal/reports"
	"esg-dashboard/ghg-backend/pkg/storage"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Tokens  *auth.TokenManager
	GHG     *ghg.Service
	Reports *reports.Service
}

// New opens the database, runs migrations and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	repo := ghg.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var reportOpts []reports.Option
	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:          cfg.Storage.S3Bucket,
			Prefix:          cfg.Storage.S3Prefix,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
		if err != nil {
			logger.Warn("Report archiving disabled", zap.Error(err))
		} else {
			reportOpts = append(reportOpts, reports.WithArchive(store, cfg.Storage.PresignTTL))
			logger.Info("Report archiving enabled",
				zap.String("bucket", cfg.Storage.S3Bucket),
				zap.String("prefix", cfg.Storage.S3Prefix))
		}
	}

	ghgService := ghg.NewService(repo, logger)
	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Tokens:  auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		GHG:     ghgService,
		Reports: reports.NewService(ghgService, logger, reportOpts...),
	}, nil
}

// Router builds the HTTP router with every API route registered.
func (a *App) Router() *gin.Engine {
	if !a.Config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors(a.Config.Server.CORSOrigin))

	api := router.Group("/api/v1")
	api.Use(auth.Middleware(a.Tokens, a.Config.Security.RequireAuth))
	{
		auth.RegisterRoutes(api, auth.NewHandler(a.Tokens))
		ghg.NewHandler(a.GHG, a.Logger).RegisterRoutes(api)
		reports.NewHandler(a.Reports, a.Logger).RegisterRoutes(api)
	}

	router.GET("/health", a.health)
	return router
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	if err := a.DB.PingContext(ctx); err != nil {
		a.Logger.Warn("Health check failed", zap.Error(err))
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"archive":   a.Reports.ArchiveEnabled(),
	})
}

func cors(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-User-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+reports.ArchiveURLHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Close stops background work and closes the database.
func (a *App) Close() error {
	a.GHG.Close()
	return a.DB.Close()
}
