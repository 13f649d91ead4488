package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/adapters/auth/jwtauth"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/adapters/storage/postgres"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/config"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/platform/logger"
	"github.com/SeanKennethDMS/PetPal-sub000/internal/router"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB (opcional: sin DSN corre con repos in-memory)
	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		opened, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("db connect failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		db = opened
		defer db.Close()
	}

	// Redis (opcional: sin addr el change feed corre in-process)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
	}

	opts := router.Options{
		DB:                db,
		Redis:             rdb,
		Log:               log,
		RefreshDebounce:   cfg.RefreshDebounce,
		LowStockThreshold: cfg.LowStockThreshold,
	}

	// Sin secret queda en modo dev: identidad por headers X-Debug-*.
	if cfg.JWTSecret != "" {
		jwt := jwtauth.New(cfg.JWTSecret, cfg.TokenTTL)
		opts.AuthVerifier = jwt
		opts.TokenIssuer = jwt
	} else {
		log.Warn("JWT_SECRET not set, running in dev auth mode", nil)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.NewRouter(ctx, opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTPAddr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	cancel() // corta el listener del change feed
}
