// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/api"
	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/calc"
	"github.com/lucroml/backend-go/internal/config"
	"github.com/lucroml/backend-go/internal/repository/postgres"
	"github.com/lucroml/backend-go/internal/service"
	"github.com/lucroml/backend-go/internal/storage"
	"github.com/lucroml/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, running without it")
		reportCache = cache.NewNoopReportCache()
	}

	// Export storage is optional; reports still work without it.
	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, CSV export disabled")
		} else {
			store = minioClient
		}
	}

	products := postgres.NewProductRepository(db)
	sales := postgres.NewSaleRepository(db)
	campaigns := postgres.NewCampaignRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	calculator := calc.New()
	settingsService := service.NewSettingsService(settingsRepo, reportCache)
	catalogService := service.NewCatalogService(products, settingsService, calculator, reportCache)
	salesService := service.NewSalesService(sales, products, campaigns, settingsService, calculator, reportCache)
	campaignService := service.NewCampaignService(campaigns, reportCache)
	reportService := service.NewReportService(products, sales, campaigns, settingsService, calculator, reportCache, store)
	syncService := service.NewSyncService(cfg.MercadoLivre, products, sales, settingsService, reportCache, nil)

	router := api.NewRouter(&api.Services{
		CatalogService:  catalogService,
		SalesService:    salesService,
		CampaignService: campaignService,
		SettingsService: settingsService,
		ReportService:   reportService,
		SyncService:     syncService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
