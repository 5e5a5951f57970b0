package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
	accountuc "github.com/bazaar-team/bazaar-backend/internal/account/usecase"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/handler"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/router"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/messaging/nats"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/repository/cache"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/repository/postgres"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/storage/s3"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
	"github.com/bazaar-team/bazaar-backend/internal/config"
	"github.com/bazaar-team/bazaar-backend/internal/mailer"
	"github.com/bazaar-team/bazaar-backend/internal/platform/logger"
	"github.com/bazaar-team/bazaar-backend/internal/platform/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := sqlx.Connect("postgres", cfg.PostgresDSN)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Apply(context.Background(), db.DB); err != nil {
		zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	treeCache := cache.NewCategoryTreeCache(redisClient)
	tokenCache := cache.NewTokenCache(redisClient)

	storage, err := s3.NewS3Storage(
		cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
		cfg.MinIOBucket, cfg.MinIOUseSSL, zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Events and mail are best-effort: the API keeps serving without them.
	var publisher cataloguc.EventPublisher
	natsPublisher, err := nats.NewPublisher(cfg.NATSURL, zapLogger)
	if err != nil {
		zapLogger.Warn("NATS unavailable, product events disabled", zap.Error(err))
	} else {
		publisher = natsPublisher
		defer natsPublisher.Close()
	}
	var mail cataloguc.Mailer
	if cfg.SMTPEmail != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	} else {
		zapLogger.Warn("SMTP_EMAIL not set, moderation emails disabled")
	}

	productRepo := postgres.NewProductRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	cityRepo := postgres.NewCityRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	imageRepo := postgres.NewImageRepository(db)
	userRepo := postgres.NewUserRepository(db)

	categoryUC := cataloguc.NewCategoryUsecase(categoryRepo, treeCache, zapLogger)
	productUC := cataloguc.NewProductUsecase(
		productRepo, categoryRepo, cityRepo, categoryUC,
		publisher, mail, userRepo, zapLogger,
	)
	favoriteUC := cataloguc.NewFavoriteUsecase(favoriteRepo, productRepo, zapLogger)
	imageUC := cataloguc.NewImageUsecase(storage, imageRepo, productRepo, zapLogger)
	userUC := accountuc.NewUserUsecase(userRepo, zapLogger)

	jwtManager := auth.NewJWTManager(auth.Config{
		Secret:          cfg.JWTSecret,
		AccessLifetime:  cfg.AccessTokenTTL,
		RefreshLifetime: cfg.RefreshTokenTTL,
		Issuer:          "bazaar-backend",
	})

	serializer := handler.NewProductSerializer(productUC, imageUC, favoriteUC, cityRepo, userUC)
	mux := router.New(router.Handlers{
		Products:   handler.NewProductHandler(productUC, favoriteUC, imageUC, serializer, zapLogger),
		Categories: handler.NewCategoryHandler(categoryUC, categoryRepo, zapLogger),
		Cities:     handler.NewCityHandler(cityRepo, zapLogger),
		Users:      handler.NewUserHandler(userUC, favoriteUC, serializer, jwtManager, tokenCache, zapLogger),
	}, jwtManager, zapLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("Starting HTTP server", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
