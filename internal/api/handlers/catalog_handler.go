package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/gin-gonic/gin"
)

type catalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type CatalogHandler struct {
	service catalogService
}

func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts returns the active catalog with variants
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}
