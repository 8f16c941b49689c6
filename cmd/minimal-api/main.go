package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ViniciusCazuza/minimal-api/internal/auth"
	"github.com/ViniciusCazuza/minimal-api/internal/config"
	"github.com/ViniciusCazuza/minimal-api/internal/db"
	"github.com/ViniciusCazuza/minimal-api/internal/httpserver"
	"github.com/ViniciusCazuza/minimal-api/internal/kv"
	"github.com/ViniciusCazuza/minimal-api/internal/logging"
	"github.com/ViniciusCazuza/minimal-api/internal/vehicles"
)

func main() {
	ctx := context.Background()

	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("using development JWT secret; set MINIMALAPI_JWT_SECRET")
	}

	dbConn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	logger.Info("database connected", "driver", dbConn.Driver)

	if err := db.Migrate(ctx, dbConn); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	adminStore := auth.NewStore(dbConn)
	seeded, err := adminStore.SeedFromFile(ctx, cfg.AdministratorsPath)
	if err != nil {
		log.Fatalf("seed administrators: %v", err)
	}
	if seeded > 0 {
		logger.Info("administrators seeded", "count", seeded, "path", cfg.AdministratorsPath)
	}
	authSvc := auth.NewService(adminStore, cfg.JWTSecret)

	var guard auth.LoginGuard
	if cfg.RedisURL != "" {
		client, err := kv.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer client.Close()
		guard = kv.NewLoginGuard(client, cfg.LoginFailLimit, cfg.LoginLockTTL)
		logger.Info("login guard enabled", "limit", cfg.LoginFailLimit, "lock_ttl", cfg.LoginLockTTL)
	}

	vehicleStore := vehicles.NewStore(dbConn)

	handler := httpserver.NewRouter(logger, authSvc, adminStore, vehicleStore, guard)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
