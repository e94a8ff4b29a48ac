package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kairos-api/internal/config"
	"kairos-api/internal/db"
	apihttp "kairos-api/internal/http"
	"kairos-api/internal/llm"
	"kairos-api/internal/repository"
	"kairos-api/internal/scoring"
	"kairos-api/internal/service"
)

func main() {
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

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	questionRepo := repository.NewPgQuestionRepository(pool)
	evaluationRepo := repository.NewPgEvaluationRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)
	resultRepo := repository.NewPgResultRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)
	assignmentRepo := repository.NewPgAssignmentRepository(pool)
	careerRepo := repository.NewPgCareerRepository(pool)

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		redisClient  *redis.Client
	)
	loginWindow := time.Duration(cfg.LoginRateWindowMinutes) * time.Minute
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginRateLimit)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
		defer redisClient.Close()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewMemoryLoginRateLimiter(loginWindow, cfg.LoginRateLimit)
	}
	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "dev-secret" {
		logger.Warn("jwt secret not configured, using development default")
	}

	var llmClient llm.LLMClient
	if cfg.LLMEnabled() {
		llmClient, err = llm.NewFromProvider(ctx, cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, logger)
		if err != nil {
			logger.Warn("llm client not available", zap.String("provider", cfg.LLMProvider), zap.Error(err))
			llmClient = nil
		}
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)

	fileCatalog, predictor := scoring.LoadArtifacts(logger, scoring.ArtifactPaths{
		Dir:           cfg.ModelArtifactsPath,
		CatalogFile:   cfg.CareerCatalogFile,
		TextModelFile: cfg.TextModelFile,
	})

	if cfg.SeedOnStartup {
		if err := db.ApplySchema(ctx, pool); err != nil {
			logger.Fatal("apply schema", zap.Error(err))
		}
		seeder := service.NewSeeder(logger, questionRepo, userSvc, careerRepo)
		if _, err := seeder.Run(ctx, cfg.AdminEmails, cfg.AdminPassword, fileCatalog); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}

	catalog := service.ResolveCatalog(ctx, logger, careerRepo, fileCatalog)
	engine := scoring.NewEngine(catalog, predictor, scoring.WithTopN(cfg.RecommendationTopN))

	enrichmentSvc := service.NewEnrichmentService(logger, llmClient)
	followupSvc := service.NewFollowupService(logger, llmClient)
	resultSvc := service.NewResultService(logger, engine, enrichmentSvc, evaluationRepo, sessionRepo, answerRepo, messageRepo, resultRepo)
	chatSvc := service.NewChatService(logger, sessionRepo, messageRepo, questionRepo, evaluationRepo, answerRepo, resultSvc, followupSvc, cfg.OpenModeMinMessages)
	studentSvc := service.NewStudentService(logger, evaluationRepo, resultSvc, feedbackRepo)
	evaluatorSvc := service.NewEvaluatorService(logger, userRepo, assignmentRepo, evaluationRepo, resultSvc, commentRepo)
	recommendationSvc := service.NewRecommendationService(engine)
	catalogSvc := service.NewCatalogService(engine, careerRepo)

	router := apihttp.NewRouter(logger, jwtSvc, apihttp.Handlers{
		User:           apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Chat:           apihttp.NewChatHandler(logger, chatSvc),
		Recommendation: apihttp.NewRecommendationHandler(logger, recommendationSvc),
		Student:        apihttp.NewStudentHandler(logger, studentSvc),
		Evaluator:      apihttp.NewEvaluatorHandler(logger, evaluatorSvc),
		Admin:          apihttp.NewAdminHandler(logger, userSvc, evaluatorSvc, catalogSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.NewHandler(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.Int("careers", len(catalog)),
			zap.Bool("predictor", engine.HasPredictor()),
			zap.Bool("llm", llmClient != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
