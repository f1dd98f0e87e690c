package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/api"
	"github.com/lysyi3m/news-comb/app/cfg"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
	"github.com/lysyi3m/news-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting News Comb server", "version", appCfg.Version)

	var fetchLog database.FetchLogRepository
	if appCfg.DBPath != "" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Fetch log ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

		fetchLog = database.NewFetchLogRepository(db)
	} else {
		slog.Info("Fetch log disabled (DB_PATH not set)")
	}

	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "enabled", len(configCache.GetEnabledConfigs()))

	httpClient := &http.Client{}
	isolator := sources.NewIsolator(appCfg.FetchTimeout, fetchLog)

	rssAdapter := sources.NewRSSAdapter(configCache, httpClient, sources.NewParser(), sources.NewFilterer(), isolator, appCfg.UserAgent)

	var newsAPIAdapter sources.Adapter
	if appCfg.NewsAPIKey != "" {
		newsAPIAdapter = sources.NewNewsAPIAdapter(appCfg.NewsAPIURL, appCfg.NewsAPIKey, httpClient, isolator, appCfg.UserAgent)
		slog.Info("News API source enabled")
	} else {
		slog.Info("News API source disabled (NEWS_API_KEY not set)")
	}

	service := aggregator.NewService(
		aggregator.New(rssAdapter, newsAPIAdapter, appCfg.CategoryLimit),
		appCfg.CacheTTL)

	if appCfg.WarmInterval > 0 {
		scheduler := tasks.NewScheduler(service, appCfg.WarmInterval, 1)
		scheduler.Start()
		defer scheduler.Stop()
	}

	handler := api.NewHandler(
		service,
		feed.NewGenerator(appCfg.BaseUrl, appCfg.Version),
		feed.NewContentExtractor(httpClient, appCfg.FetchTimeout, appCfg.UserAgent),
		fetchLog,
		configCache,
		newsAPIAdapter != nil)
	server := api.NewServer(handler, appCfg.APIAccessKey, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
