package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kakeibo/internal/auth"
	"kakeibo/internal/config"
	apphttp "kakeibo/internal/http"
	applog "kakeibo/internal/log"
	"kakeibo/internal/memory"
	"kakeibo/internal/services"
	"kakeibo/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var store services.Store
	switch cfg.DataBackend {
	case "memory":
		store = memory.New()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open database",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
		logger.Info("Initialized sqlite backend",
			"backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	hash, err := cfg.PasswordHash()
	if err != nil {
		logger.Error("Failed to resolve password hash", applog.FieldError, err.Error())
		os.Exit(1)
	}
	gate := auth.NewGate(hash, cfg.SessionTTL)

	ledger := services.NewLedger(store)
	copier := services.NewCopier(store)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, copier, gate)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			applog.FieldOperation, applog.OpShutdown, "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting kakeibo server",
		applog.FieldOperation, applog.OpStartup, "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
