package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kairos-api/internal/config"
	"kairos-api/internal/db"
	"kairos-api/internal/repository"
	"kairos-api/internal/scoring"
	"kairos-api/internal/service"
)

// seed aplica el esquema y carga preguntas, admins y catalogo de carreras.
func main() {
	skipSchema := flag.Bool("skip-schema", false, "no ejecutar el DDL antes de sembrar")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if !*skipSchema {
		if err := db.ApplySchema(ctx, pool); err != nil {
			logger.Fatal("apply schema", zap.Error(err))
		}
	}

	catalog, err := scoring.LoadCatalog(scoring.ArtifactPaths{
		Dir:         cfg.ModelArtifactsPath,
		CatalogFile: cfg.CareerCatalogFile,
	}.CatalogPath())
	if err != nil {
		logger.Warn("career catalog not loaded, skipping career sync", zap.Error(err))
	}

	userSvc := service.NewUserService(logger, repository.NewPgUserRepository(pool), nil)
	seeder := service.NewSeeder(logger, repository.NewPgQuestionRepository(pool), userSvc, repository.NewPgCareerRepository(pool))
	if _, err := seeder.Run(ctx, cfg.AdminEmails, cfg.AdminPassword, catalog); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
}
