package http

import (
	"net/http"
	"strings"

	"github.com/GridlineHQ/gridline/backend/internal/domain/service"
	"github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/logging"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/monitoring"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/tracing"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultDiscoverLimit bounds discovery results when the request omits one.
const defaultDiscoverLimit = 5

// Handlers contains all HTTP handlers
type Handlers struct {
	registry       *service.Registry
	datasets       *tomo.Manager // nil when tomography is disabled
	metrics        *monitoring.Metrics
	handlerMetrics *HandlerMetrics
	logger         *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	registry *service.Registry,
	datasets *tomo.Manager,
	metrics *monitoring.Metrics,
	handlerMetrics *HandlerMetrics,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		registry:       registry,
		datasets:       datasets,
		metrics:        metrics,
		handlerMetrics: handlerMetrics,
		logger:         logger,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Gridline Compute Service (Go)",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	tomography := gin.H{"enabled": h.datasets != nil}
	if h.datasets != nil {
		tomography["datasets"] = h.datasets.Stats()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"tomography":       tomography,
		"uptime_seconds":   h.metrics.UptimeSeconds(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	defer h.handlerMetrics.TrackRegistryOperation("list")()

	categoryStr := c.Query("category")

	// Validate category if provided
	if categoryStr != "" {
		if err := utils.ValidateCategory(categoryStr, false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// DiscoverServices discovers relevant services for an intent
func (h *Handlers) DiscoverServices(c *gin.Context) {
	defer h.handlerMetrics.TrackRegistryOperation("discover")()

	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate intent
	if err := utils.ValidateString(req.Intent, "intent", 1, utils.MaxExpressionLength, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > defaultDiscoverLimit {
		limit = defaultDiscoverLimit
	}

	services := h.registry.Discover(req.Intent, limit)

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Intent,
		"services": services,
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate tool ID
	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Bound nesting before params reach recursive operand decoding
	if err := utils.ValidateJSONDepth(req.Params, utils.MaxJSONDepth); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := executionContext(c, &req)
	timer := monitoring.NewTimer(h.metrics, serviceOf(req.ToolID), req.ToolID)

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, ctx)
	if err != nil {
		timer.Stop("error")
		h.metrics.RecordServiceError(serviceOf(req.ToolID), req.ToolID, "dispatch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.Success {
		timer.Stop("success")
	} else {
		timer.Stop("failure")
		h.logger.Debug("tool reported failure",
			zap.String("tool_id", req.ToolID),
			zap.Stringp("error", result.Error),
		)
	}

	c.JSON(http.StatusOK, result)
}

// executionContext assembles the per-request context passed to providers.
func executionContext(c *gin.Context, req *types.ExecuteRequest) *types.Context {
	ctx := &types.Context{AppID: req.AppID}
	if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
		requestID := string(traceID)
		ctx.RequestID = &requestID
	}
	return ctx
}

// serviceOf extracts the service portion of a service.tool identifier.
func serviceOf(toolID string) string {
	if idx := strings.Index(toolID, "."); idx > 0 {
		return toolID[:idx]
	}
	return toolID
}
