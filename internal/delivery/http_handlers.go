package delivery

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"presellgo/internal/domain"
	"presellgo/internal/usecase"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	store      domain.ConfigStore
	resolver   *usecase.ProductResolver
	products   *usecase.ProductService
	aggregator *usecase.MetricsAggregator
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	store domain.ConfigStore,
	resolver *usecase.ProductResolver,
	products *usecase.ProductService,
	aggregator *usecase.MetricsAggregator,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		store:      store,
		resolver:   resolver,
		products:   products,
		aggregator: aggregator,
		logger:     logger,
		metrics:    metrics,
	}
}

// trackRequest is the tracking beacon payload.
type trackRequest struct {
	Slug    string `json:"slug"`
	Variant string `json:"variant"`
	Event   string `json:"event"`
}

// ResolvePage resolves a locale + slug (+ host-derived vertical hint)
// into a product record for page rendering.
func (h *HTTPHandlers) ResolvePage(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	ctx := c.Request.Context()
	rawSlug := c.Param("slug")
	locale := c.Query("lang")
	hint := verticalHintFromHost(c.Request.Host)

	res, err := h.resolver.Resolve(ctx, rawSlug, locale, hint)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Product not found",
			"slug":       rawSlug,
			"request_id": c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":    res.Record,
		"key":        res.Key.String(),
		"request_id": c.GetString("request_id"),
	})
}

// Track buffers one view/click event. The response reflects buffering
// only; flush outcome is never surfaced to the beacon caller.
func (h *HTTPHandlers) Track(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid tracking payload",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	if err := h.aggregator.Record(c.Request.Context(), req.Slug, req.Variant, domain.EventType(req.Event)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid tracking payload",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":     "buffered",
		"request_id": c.GetString("request_id"),
	})
}

// GetConfig returns the full campaign document for the dashboard.
func (h *HTTPHandlers) GetConfig(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	cfg := h.store.Config(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"config":     cfg,
		"request_id": c.GetString("request_id"),
	})
}

// CreateProduct allocates a storage key and writes a new record.
func (h *HTTPHandlers) CreateProduct(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	var input usecase.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid product payload",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	result, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, "create product", err)
		return
	}

	// Cross-vertical collision: point the caller at the existing record
	// instead of creating a duplicate.
	if !result.Created {
		c.JSON(http.StatusOK, gin.H{
			"status":     "exists",
			"key":        result.Key.String(),
			"product":    result.Record,
			"request_id": c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":        result.Key.String(),
		"product":    result.Record,
		"pruned":     result.Pruned,
		"request_id": c.GetString("request_id"),
	})
}

// SaveProduct updates an existing record in place.
func (h *HTTPHandlers) SaveProduct(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	var input usecase.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid product payload",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	result, err := h.products.Save(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		h.writeError(c, "save product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":        result.Key.String(),
		"product":    result.Record,
		"pruned":     result.Pruned,
		"request_id": c.GetString("request_id"),
	})
}

// DeleteProduct removes a record and its ghost-key variants.
func (h *HTTPHandlers) DeleteProduct(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	if err := h.products.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.writeError(c, "delete product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "deleted",
		"request_id": c.GetString("request_id"),
	})
}

// ActivateProduct marks a record as the campaign's active product.
func (h *HTTPHandlers) ActivateProduct(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	if err := h.products.Activate(c.Request.Context(), c.Param("slug")); err != nil {
		h.writeError(c, "activate product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "activated",
		"request_id": c.GetString("request_id"),
	})
}

// GetCampaignMetrics returns persisted counters merged with the live
// buffer.
func (h *HTTPHandlers) GetCampaignMetrics(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	snapshot := h.aggregator.Snapshot(c.Request.Context())
	views, clicks := snapshot.Totals()

	c.JSON(http.StatusOK, gin.H{
		"metrics":      snapshot,
		"total_views":  views,
		"total_clicks": clicks,
		"request_id":   c.GetString("request_id"),
	})
}

// ResetCampaignMetrics clears every counter.
func (h *HTTPHandlers) ResetCampaignMetrics(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	if err := h.aggregator.Reset(c.Request.Context()); err != nil {
		h.writeError(c, "reset metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "reset",
		"request_id": c.GetString("request_id"),
	})
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "presellgo",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

// writeError maps service errors onto HTTP status codes.
func (h *HTTPHandlers) writeError(c *gin.Context, operation string, err error) {
	requestID := c.GetString("request_id")
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Product not found",
			"message":    err.Error(),
			"request_id": requestID,
		})
	case errors.Is(err, domain.ErrInvalidRecord):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Invalid product record",
			"message":    err.Error(),
			"request_id": requestID,
		})
	default:
		// Store failures on the write path are never silent successes.
		h.logger.WithContext(ctx).WithError(err).Error("Admin write failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to " + operation,
			"message":    err.Error(),
			"request_id": requestID,
		})
	}
}

// verticalHintFromHost derives the vertical hint from the first
// subdomain label when it names a known vertical, e.g.
// health.example.com -> "health".
func verticalHintFromHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	label, _, found := strings.Cut(host, ".")
	if !found {
		return ""
	}
	if domain.Vertical(label).IsKnown() {
		return label
	}
	return ""
}
