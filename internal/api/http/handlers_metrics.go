package http

import (
	"time"

	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/monitoring"
)

// HandlerMetrics wraps handlers with metrics tracking
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// TrackRegistryOperation tracks service registry operations
func (hm *HandlerMetrics) TrackRegistryOperation(operation string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start)
		hm.metrics.RecordServiceCall("service_registry", operation, "success", duration)
	}
}

// TrackDatasetOperation tracks dataset management operations
func (hm *HandlerMetrics) TrackDatasetOperation(operation string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start)
		hm.metrics.RecordServiceCall("dataset_manager", operation, "success", duration)
	}
}
