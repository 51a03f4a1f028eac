// Package main wires together the search agent service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tkohara/mercari-search-agent/internal/api"
	"github.com/tkohara/mercari-search-agent/internal/config"
	"github.com/tkohara/mercari-search-agent/internal/enrich"
	"github.com/tkohara/mercari-search-agent/internal/llm"
	"github.com/tkohara/mercari-search-agent/internal/logging"
	"github.com/tkohara/mercari-search-agent/internal/metrics"
	"github.com/tkohara/mercari-search-agent/internal/pipeline"
	"github.com/tkohara/mercari-search-agent/internal/render"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Local development keeps secrets in a .env file; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := render.New(render.Config{Endpoint: cfg.FlareSolverr.Endpoint}, logger.Named("render"))
	llmClient := llm.New(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	}, logger.Named("llm"))
	enricher := enrich.New(renderer, cfg.DetailTimeout(), logger.Named("enrich"))

	pipe := pipeline.New(
		llmClient,
		renderer,
		enricher,
		llmClient,
		pipeline.Config{
			MaxItems:      cfg.Search.MaxItems,
			HistoryLimit:  cfg.Recommend.HistoryLimit,
			SearchTimeout: cfg.SearchTimeout(),
		},
		logger.Named("pipeline"),
	)

	apiServer := api.NewServer(pipe, api.Config{CORSOrigin: cfg.Server.CORSOrigin}, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
