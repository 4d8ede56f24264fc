// Package main wires together the bookmark service binary.
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

	"go.uber.org/zap"

	"github.com/mquillen/summark/internal/api"
	"github.com/mquillen/summark/internal/clock/system"
	"github.com/mquillen/summark/internal/config"
	"github.com/mquillen/summark/internal/extract"
	uuidgen "github.com/mquillen/summark/internal/id/uuid"
	"github.com/mquillen/summark/internal/logging"
	"github.com/mquillen/summark/internal/ratelimit"
	"github.com/mquillen/summark/internal/storage"
	"github.com/mquillen/summark/internal/storage/postgres"
	"github.com/mquillen/summark/internal/summarize"
	"github.com/mquillen/summark/internal/xapi"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

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
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := system.New()
	idGen := uuidgen.New()

	source := xapi.New(xapi.Config{
		BearerToken: cfg.X.BearerToken,
		BaseURL:     cfg.X.BaseURL,
		Timeout:     cfg.XTimeout(),
	})
	fetcher := extract.NewFetcher(extract.FetcherConfig{
		UserAgent:       cfg.Extract.UserAgent,
		ResolveTimeout:  cfg.ResolveTimeout(),
		ArticleTimeout:  cfg.ArticleTimeout(),
		ArticleMinChars: cfg.Extract.ArticleMinChars,
		ArticleMaxChars: cfg.Extract.ArticleMaxChars,
	})
	pipeline := extract.NewPipeline(source, fetcher, extract.Config{
		LinkResidueMax: cfg.Extract.LinkResidueMax,
		PageSize:       cfg.X.PageSize,
		ThreadMaxItems: cfg.X.ThreadMaxItems,
	}, logger)
	summarizer := summarize.New(summarize.Config{
		APIKey:          cfg.Summarize.APIKey,
		BaseURL:         cfg.Summarize.BaseURL,
		Model:           cfg.Summarize.Model,
		MaxInputChars:   cfg.Summarize.MaxInputChars,
		MaxOutputTokens: cfg.Summarize.MaxOutputTokens,
		Timeout:         cfg.SummarizeTimeout(),
	})
	limiter := ratelimit.New(ratelimit.Config{
		PerMinute:   cfg.RateLimit.PerMinute,
		PerDay:      cfg.RateLimit.PerDay,
		CharsPerDay: cfg.RateLimit.CharsPerDay,
	}, clock)

	var store storage.Store
	switch cfg.Storage.Provider {
	case "postgres":
		pg, err := postgres.NewStore(ctx, postgres.Config{
			DSN:   cfg.Storage.DSN,
			Table: cfg.Storage.Table,
		})
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
		defer pg.Close()
		store = pg
	default:
		logger.Info("using in-memory bookmark store")
		store = storage.NewMemoryStore()
	}

	server := api.NewServer(pipeline, summarizer, store, limiter, idGen, clock, cfg, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	logger.Info("server listening", zap.Int("port", cfg.Server.Port))

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
		}
	}
}
