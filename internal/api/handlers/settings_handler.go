package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/gin-gonic/gin"
)

type settingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, settings domain.Settings) error
}

type SettingsHandler struct {
	service settingsService
}

func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces all settings; omitted fields fail binding rather than reset to zero
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, "invalid settings payload", err)
		return
	}

	if err := h.service.Update(c.Request.Context(), settings); err != nil {
		respondError(c, "failed to update settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
