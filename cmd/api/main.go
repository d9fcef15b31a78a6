package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-todo-lists/internal/config"
	"go-todo-lists/internal/database"
	"go-todo-lists/internal/logging"
	"go-todo-lists/internal/metrics"
	"go-todo-lists/internal/routes"
)

func main() {
	// 設定の読み込みに失敗した場合はサーバーを起動しない
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal: Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logging.Critical(ctx, logger, "Failed to initialize database", "cause", err.Error())
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Successfully connected to database", "driver", cfg.Database.Driver)

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			logging.Critical(ctx, logger, "Failed to migrate database", "cause", err.Error())
			os.Exit(1)
		}
	}

	app := &routes.App{
		DB:      db,
		Dialect: dialect,
		Logger:  logger,
		CORS:    cfg.CORS,
		Metrics: metrics.New(db),
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           routes.SetupRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", srv.Addr, "driver", dialect.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
