package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bomberman-api/internal/config"
	"github.com/bomberman-api/internal/infrastructure/smtp"
	"github.com/bomberman-api/internal/infrastructure/store"
	"github.com/bomberman-api/internal/pkg/logx"
	transporthttp "github.com/bomberman-api/internal/transport/http"
	"github.com/joho/godotenv"
)

const startupTimeout = 30 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logx.New(logx.Config{
		Service: "bomberman-api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	if envErr != nil {
		logger.Info("no .env file found, reading from environment")
	}

	// Opening the store creates DynamoDB tables or MongoDB indexes when missing.
	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	gw, err := store.Open(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	logger.Info("store ready", "driver", cfg.StoreDriver)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Users:  gw.Users,
		OTPs:   gw.OTPs,
		Store:  gw,
		Mailer: smtp.NewMailer(cfg),
		Logger: logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
	if err := gw.Close(ctx); err != nil {
		logger.Warn("failed to close store", "err", err)
	}
	logger.Info("server stopped")
}
