package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bespaarwijzer/backend/internal/domain"
	"github.com/bespaarwijzer/backend/internal/usecase"
)

// ComparisonUsecase is what the handlers need from the comparison service
type ComparisonUsecase interface {
	Compare(ctx context.Context, records []domain.ProductRecord) (*domain.ComparisonResponse, error)
	CompareFeed(ctx context.Context) (*domain.ComparisonResponse, error)
	Annotate(records []domain.ProductRecord) []domain.ProductRecord
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons ComparisonUsecase
	logger      zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons ComparisonUsecase, logger zerolog.Logger) *Handler {
	return &Handler{
		comparisons: comparisons,
		logger:      logger.With().Str("component", "http").Logger(),
	}
}

// ProductsRequest is the body accepted by the comparison and annotate endpoints
type ProductsRequest struct {
	Products []domain.ProductRecord `json:"products" binding:"required"`
}

// MechanismRequest is the body accepted by the mechanism endpoint
type MechanismRequest struct {
	Tag            string   `json:"tag"`
	ReferencePrice *float64 `json:"reference_price" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bespaarwijzer-backend",
		"version": "1.0.0",
	})
}

// CompareProducts runs the matcher over caller-supplied records
func (h *Handler) CompareProducts(c *gin.Context) {
	if h.comparisons == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "comparison service not configured"})
		return
	}

	var req ProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.comparisons.Compare(c.Request.Context(), req.Products)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetFeedComparisons compares the records currently published by the feed
func (h *Handler) GetFeedComparisons(c *gin.Context) {
	if h.comparisons == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "comparison service not configured"})
		return
	}

	resp, err := h.comparisons.CompareFeed(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnnotateProducts returns the records with unit, volume, price and type annotations
func (h *Handler) AnnotateProducts(c *gin.Context) {
	if h.comparisons == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "comparison service not configured"})
		return
	}

	var req ProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": h.comparisons.Annotate(req.Products)})
}

// ResolveMechanism computes the effective per-unit price of a deal tag
func (h *Handler) ResolveMechanism(c *gin.Context) {
	var req MechanismRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag":             req.Tag,
		"reference_price": *req.ReferencePrice,
		"price":           usecase.ResolveMechanism(req.Tag, *req.ReferencePrice),
	})
}

// writeError maps domain errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoProducts), errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFeedNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrFeedFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
