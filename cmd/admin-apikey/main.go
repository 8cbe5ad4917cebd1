package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dandi.backend/internal/config"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/infrastructure/repositories"
	"dandi.backend/internal/usecases"
)

var openAdminAPIKeyDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false, TranslateError: true})
}

var openAdminSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

// adminAPIKeyRuntime is the slice of the usecase this tool needs.
type adminAPIKeyRuntime interface {
	CreateApiKey(ctx context.Context, input *entities.CreateApiKeyInput) (*entities.ApiKey, error)
}

type adminAPIKeyDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminAPIKeyRuntime, io.Closer, error)
	out     io.Writer
}

func defaultAdminAPIKeyDeps() adminAPIKeyDeps {
	return adminAPIKeyDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminAPIKeyRuntime, io.Closer, error) {
			db, err := openAdminAPIKeyDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := openAdminSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			apiKeyRepo := repositories.NewApiKeyRepository(db)
			return usecases.NewApiKeyUsecase(apiKeyRepo), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func main() {
	name := flag.String("name", "", "display name for the key (required)")
	description := flag.String("description", "", "optional description")
	limit := flag.Int64("monthly-limit", 0, "monthly quota; 0 means unlimited")
	flag.Parse()

	if err := runAdminAPIKey(defaultAdminAPIKeyDeps(), *name, *description, *limit); err != nil {
		log.Fatal(err)
	}
}

func runAdminAPIKey(deps adminAPIKeyDeps, name, description string, limit int64) error {
	if name == "" {
		return fmt.Errorf("-name is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	input := &entities.CreateApiKeyInput{
		Name:        name,
		Description: description,
	}
	if limit > 0 {
		input.MonthlyLimit = &limit
	}

	key, err := runtime.CreateApiKey(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	fmt.Fprintln(deps.out, "Created API key")
	fmt.Fprintf(deps.out, "ID=%s\n", key.ID)
	fmt.Fprintf(deps.out, "KEY=%s\n", key.Key)
	if key.MonthlyLimit != nil {
		fmt.Fprintf(deps.out, "MONTHLY_LIMIT=%d\n", *key.MonthlyLimit)
	}
	return nil
}
