// Package main runs the paperstore web server.
//
// Configuration is read from the environment and an optional .env file; see
// package internal/config for the variables.
//
// Example usage:
//
//	DYNAMODB_TABLE_NAME=papers REGION=us-east-1 ./paperstore
//
//	# Against DynamoDB Local
//	DYNAMODB_TABLE_NAME=papers DYNAMODB_ENDPOINT=http://localhost:8000 ./paperstore
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jacentio/paperstore/internal/api"
	"github.com/jacentio/paperstore/internal/config"
	"github.com/jacentio/paperstore/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("paperstore exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := cfg.DynamoDB(ctx)
	if err != nil {
		return err
	}
	papers := store.New(client, cfg.StoreConfig())

	router, err := api.NewRouter(papers, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running",
			"addr", srv.Addr,
			"table", papers.TableName(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
