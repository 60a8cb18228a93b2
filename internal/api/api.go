// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/api/handlers"
	"github.com/andresuchdata/m2go-inventory/internal/api/middleware"
	"github.com/andresuchdata/m2go-inventory/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	CatalogService    *service.CatalogService
	CountService      *service.CountService
	SuggestionService *service.SuggestionService
	OrderService      *service.OrderService
	SettingsService   *service.SettingsService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
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
			catalogHandler := handlers.NewCatalogHandler(services.CatalogService)
			apiGroup.GET("/products", catalogHandler.ListProducts)
		}

		if services.CountService != nil {
			countHandler := handlers.NewCountHandler(services.CountService)
			apiGroup.POST("/daily_counts", countHandler.RecordCount)
		}

		if services.SuggestionService != nil && services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.SuggestionService, services.OrderService)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.GET("/suggestion", orderHandler.GetSuggestion)
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.GET("/:id", orderHandler.GetOrder)
				orderGroup.GET("/:id/export", orderHandler.ExportOrder)
			}
		}

		if services.SettingsService != nil {
			settingsHandler := handlers.NewSettingsHandler(services.SettingsService)
			apiGroup.GET("/settings", settingsHandler.GetSettings)
			apiGroup.PUT("/settings", settingsHandler.UpdateSettings)
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
			parsed = append(parsed, strings.TrimRight(trimmed, "/"))
		}
	}
	return parsed, allowAll
}
