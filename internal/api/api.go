// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lucroml/backend-go/internal/api/handlers"
	"github.com/lucroml/backend-go/internal/api/middleware"
	"github.com/lucroml/backend-go/internal/service"
)

type Services struct {
	CatalogService  *service.CatalogService
	SalesService    *service.SalesService
	CampaignService *service.CampaignService
	SettingsService *service.SettingsService
	ReportService   *service.ReportService
	SyncService     *service.SyncService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.CatalogService != nil {
			productHandler := handlers.NewProductHandler(services.CatalogService)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.POST("", productHandler.Create)
				productGroup.GET("/:id", productHandler.Get)
				productGroup.PUT("/:id", productHandler.Update)
				productGroup.DELETE("/:id", productHandler.Delete)
				productGroup.GET("/:id/preview", productHandler.Preview)
				productGroup.GET("/:id/minimum-price", productHandler.MinimumPrice)
			}
		}

		if services.SalesService != nil {
			saleHandler := handlers.NewSaleHandler(services.SalesService)
			saleGroup := apiGroup.Group("/sales")
			{
				saleGroup.GET("", saleHandler.List)
				saleGroup.POST("", saleHandler.Create)
				saleGroup.GET("/:id", saleHandler.Get)
				saleGroup.PUT("/:id", saleHandler.Update)
				saleGroup.DELETE("/:id", saleHandler.Delete)
				saleGroup.GET("/:id/breakdown", saleHandler.Breakdown)
			}
		}

		if services.CampaignService != nil {
			campaignHandler := handlers.NewCampaignHandler(services.CampaignService)
			campaignGroup := apiGroup.Group("/campaigns")
			{
				campaignGroup.GET("", campaignHandler.List)
				campaignGroup.POST("", campaignHandler.Create)
				campaignGroup.GET("/:id", campaignHandler.Get)
				campaignGroup.PUT("/:id", campaignHandler.Update)
				campaignGroup.DELETE("/:id", campaignHandler.Delete)
			}
		}

		if services.SettingsService != nil {
			settingsHandler := handlers.NewSettingsHandler(services.SettingsService)
			apiGroup.GET("/settings", settingsHandler.Get)
			apiGroup.PUT("/settings", settingsHandler.Update)
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("/summary", reportHandler.Summary)
				reportGroup.GET("/monthly", reportHandler.Monthly)
				reportGroup.GET("/costs", reportHandler.CostBreakdown)
				reportGroup.GET("/weekdays", reportHandler.Weekdays)
				reportGroup.GET("/abc", reportHandler.ABC)
				reportGroup.GET("/forecast", reportHandler.Forecast)
				reportGroup.POST("/export", reportHandler.Export)
				reportGroup.GET("/exports", reportHandler.Exports)
			}
		}

		if services.SyncService != nil {
			mlHandler := handlers.NewMLHandler(services.SyncService)
			mlGroup := apiGroup.Group("/ml")
			{
				mlGroup.GET("/status", mlHandler.Status)
				mlGroup.GET("/auth-url", mlHandler.AuthURL)
				mlGroup.GET("/callback", mlHandler.Callback)
				mlGroup.POST("/sync/products", mlHandler.SyncProducts)
				mlGroup.POST("/sync/orders", mlHandler.SyncOrders)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
