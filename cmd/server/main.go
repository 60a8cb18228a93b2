// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/api"
	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/config"
	"github.com/andresuchdata/m2go-inventory/internal/engine"
	"github.com/andresuchdata/m2go-inventory/internal/repository/postgres"
	"github.com/andresuchdata/m2go-inventory/internal/service"
	"github.com/andresuchdata/m2go-inventory/internal/storage"
	"github.com/andresuchdata/m2go-inventory/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON(os.Stdout)
	}
	logger.SetLevel(cfg.App.LogLevel)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	rules, err := engine.LoadRules(cfg.Engine.RulesPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Engine.RulesPath).Msg("Failed to load engine rules")
	}

	suggestionCache, err := cache.NewSuggestionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Suggestion cache disabled")
		suggestionCache = cache.NewNoopSuggestionCache()
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Export archive disabled")
		} else {
			archive = client
		}
	}

	catalogRepo := postgres.NewCatalogRepository(db)
	countRepo := postgres.NewCountRepository(db)
	balanceRepo := postgres.NewBalanceRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	settingsService := service.NewSettingsService(settingsRepo, suggestionCache)
	if err := settingsService.EnsureDefaults(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to store default settings")
	}

	suggestionService := service.NewSuggestionService(
		catalogRepo, countRepo, balanceRepo, settingsRepo,
		engine.New(rules), suggestionCache, cfg.Engine.MaxLookbackDays,
	)
	suggestionService.SetLocation(cfg.App.Location())

	services := &api.Services{
		CatalogService:    service.NewCatalogService(catalogRepo, suggestionCache),
		CountService:      service.NewCountService(countRepo, suggestionCache),
		SuggestionService: suggestionService,
		OrderService:      service.NewOrderService(orderRepo, archive, cfg.Storage.ExportPrefix),
		SettingsService:   settingsService,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
