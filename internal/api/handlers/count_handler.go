package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/gin-gonic/gin"
)

type countService interface {
	Record(ctx context.Context, rec *domain.CountRecord) error
}

type CountHandler struct {
	service countService
}

func NewCountHandler(service countService) *CountHandler {
	return &CountHandler{service: service}
}

type recordCountRequest struct {
	VariantID  int64    `json:"variant_id" binding:"required"`
	Date       string   `json:"date" binding:"required"`
	CountedQty *float64 `json:"counted_qty" binding:"required"`
}

// RecordCount stores one physical count and returns it with the computed adjustment
func (h *CountHandler) RecordCount(c *gin.Context) {
	var req recordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid count payload", err)
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD", err)
		return
	}

	rec := &domain.CountRecord{
		VariantID:  req.VariantID,
		Date:       date,
		CountedQty: *req.CountedQty,
	}
	if err := h.service.Record(c.Request.Context(), rec); err != nil {
		respondError(c, "failed to record count", err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
