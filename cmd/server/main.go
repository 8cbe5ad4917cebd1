package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dandi.backend/internal/config"
	"dandi.backend/internal/infrastructure/generation"
	"dandi.backend/internal/infrastructure/github"
	"dandi.backend/internal/infrastructure/models"
	"dandi.backend/internal/infrastructure/repositories"
	"dandi.backend/internal/interfaces/http/handlers"
	"dandi.backend/internal/interfaces/http/middleware"
	"dandi.backend/internal/usecases"
	"dandi.backend/pkg/jwt"
	"dandi.backend/pkg/logger"
	"dandi.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newGenerator = buildGenerator
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB     = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func buildGenerator(ctx context.Context, cfg *config.Config) (usecases.SummaryGenerator, error) {
	switch cfg.Generation.Provider {
	case "openai":
		return generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:  cfg.Generation.OpenAIAPIKey,
			BaseURL: cfg.Generation.OpenAIBaseURL,
			Model:   cfg.Generation.OpenAIModel,
		}), nil
	case "gemini":
		return generation.NewGeminiGenerator(ctx, cfg.Generation.GeminiAPIKey, cfg.Generation.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.Generation.Provider)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis (idempotency replay on the summarizer endpoint)
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(&models.ApiKey{}); err != nil {
			log.Printf("⚠️ Auto-migration failed: %v", err)
		}
	}

	// Initialize JWT service for dashboard sessions
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Initialize repositories
	apiKeyRepo := repositories.NewApiKeyRepository(db)

	// Initialize external collaborators
	githubClient := github.NewClient(github.Config{
		BaseURL:   cfg.GitHub.APIBaseURL,
		Token:     cfg.GitHub.Token,
		UserAgent: cfg.GitHub.UserAgent,
	})
	generator, err := newGenerator(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize summary generator: %w", err)
	}

	// Initialize usecases
	apiKeyUsecase := usecases.NewApiKeyUsecase(apiKeyRepo)
	summaryUsecase := usecases.NewSummaryUsecase(githubClient, generator)

	// Initialize handlers
	apiKeyHandler := handlers.NewApiKeyHandler(apiKeyUsecase)
	validateKeyHandler := handlers.NewValidateKeyHandler(apiKeyUsecase)
	summaryHandler := handlers.NewSummaryHandler(summaryUsecase)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		apiKeyHandler:      apiKeyHandler,
		validateKeyHandler: validateKeyHandler,
		summaryHandler:     summaryHandler,
		sessionAuth:        middleware.SessionAuthMiddleware(jwtService),
		apiKeyAuth:         middleware.ApiKeyAuthMiddleware(apiKeyUsecase),
	})

	log.Printf("🚀 Dandi Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
