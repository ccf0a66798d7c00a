// Package main is the entry point for the clinic auth service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/martclinic/clinic-auth/internal/api"
	"github.com/martclinic/clinic-auth/internal/core/ports"
	"github.com/martclinic/clinic-auth/internal/core/service"
	"github.com/martclinic/clinic-auth/internal/core/token"
	"github.com/martclinic/clinic-auth/internal/infrastructure/config"
	mongodb "github.com/martclinic/clinic-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/martclinic/clinic-auth/internal/infrastructure/db/redis"
	"github.com/martclinic/clinic-auth/internal/infrastructure/memory"
	"github.com/martclinic/clinic-auth/internal/infrastructure/queue"
	"github.com/martclinic/clinic-auth/pkg/logger"
)

// devSecret signs tokens when no JWT_SECRET is configured in memory mode.
// Load rejects a missing secret for every other store.
const devSecret = "martclinic-dev-secret"

// @title Clinic Auth Service API
// @version 1.0
// @description Authentication, role-based authorization and user administration for the clinic management system.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	verifier := service.NewBcryptVerifier(0)

	var (
		userStore   ports.UserStore
		activityLog ports.ActivityLog
		mongoDB     *mongo.Database
	)
	switch cfg.Store {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		userStore = repo
		activityLog = mongodb.NewActivityRepository(db)
		mongoDB = db
	case "memory":
		store := memory.NewUserStore()
		if err := memory.Seed(ctx, store, verifier, log); err != nil {
			log.Fatal().Err(err).Msg("seeding dev users failed")
		}
		userStore = store
		activityLog = memory.NewActivityLog()
		log.Warn().Msg("memory store active: data is volatile, dev accounts seeded")
	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE value")
	}

	var (
		rdb      *redis.Client
		throttle ports.LoginThrottle
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Timeout: cfg.Redis.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = devSecret
		log.Warn().Msg("JWT_SECRET not set, using dev secret")
	}
	codec := token.NewCodec(secret, cfg.TokenTTL)

	// Audit writes go through the async dispatcher so a slow sink never
	// stalls a request.
	dispatcher := queue.NewActivityDispatcher(0, activityLog, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(userStore, codec, verifier, dispatcher, throttle, log)
	userService := service.NewUserService(userStore, verifier, activityLog, log)
	validator := service.NewSessionValidator(codec, userStore, log)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Users:     userService,
		Validator: validator,
		Codec:     codec,
		Mongo:     mongoDB,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting clinic auth service")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
