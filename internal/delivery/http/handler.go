package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/usecase"
)

// SuggestionFinder is the use case behind the API
type SuggestionFinder interface {
	FindAlternatives(ctx context.Context, product *domain.ProductInfo) (*usecase.SuggestionResult, error)
	EnrichProduct(ctx context.Context, product *domain.ProductInfo) (*domain.ProductInfo, *domain.EnrichmentSteps, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	finder  SuggestionFinder
	version string
}

// NewHandler creates a new HTTP handler. finder may be nil, in which case the
// API endpoints answer 503.
func NewHandler(finder SuggestionFinder, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{finder: finder, version: version}
}

// searchRequest is the body of POST /api/v1/alternatives/search
type searchRequest struct {
	Product       *domain.ProductInfo `json:"product"`
	IsProductPage *bool               `json:"isProductPage"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecofinder-backend",
		"version": h.version,
	})
}

// EnrichProduct runs the enrichment pipeline for a product record
func (h *Handler) EnrichProduct(c *gin.Context) {
	if h.finder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "enrichment service not configured"})
		return
	}

	var product domain.ProductInfo
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload: " + err.Error()})
		return
	}

	enriched, steps, err := h.finder.EnrichProduct(c.Request.Context(), &product)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":         enriched,
		"enrichmentSteps": steps,
	})
}

// SearchAlternatives runs one page session against the posted product record
func (h *Handler) SearchAlternatives(c *gin.Context) {
	if h.finder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "alternatives service not configured"})
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request payload: " + err.Error()})
		return
	}

	sidebar := &responseSidebar{}
	session := usecase.NewPageSession(newRequestExtractor(req.Product, req.IsProductPage), sidebar, h.finder)

	result, err := session.FindAlternatives(c.Request.Context())
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("alternatives search failed",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(err),
			)
		}
		c.JSON(status, gin.H{"success": false, "error": sidebar.message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"alternatives":    sidebar.alternatives,
		"product":         result.Product,
		"enrichmentSteps": result.Steps,
		"source":          result.Source,
	})
}

// statusForError maps use case errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotProductPage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
