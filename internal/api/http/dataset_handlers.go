package http

import (
	"net/http"

	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// requireDatasets rejects dataset routes when tomography is disabled.
func (h *Handlers) requireDatasets(c *gin.Context) bool {
	if h.datasets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "tomography is disabled",
		})
		return false
	}
	return true
}

// ListDatasets lists all loaded datasets
func (h *Handlers) ListDatasets(c *gin.Context) {
	if !h.requireDatasets(c) {
		return
	}
	defer h.handlerMetrics.TrackDatasetOperation("list")()

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"datasets": h.datasets.List(),
		"stats":    h.datasets.Stats(),
	})
}

// GetDataset returns a snapshot of one dataset
func (h *Handlers) GetDataset(c *gin.Context) {
	if !h.requireDatasets(c) {
		return
	}
	defer h.handlerMetrics.TrackDatasetOperation("get")()

	id := c.Param("id")

	// Validate dataset ID
	if err := utils.ValidateString(id, "dataset_id", 1, utils.MaxIDLength, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	ds, ok := h.datasets.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown dataset: " + id,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataset": ds.Snapshot(),
	})
}

// ReleaseDataset drops a dataset and frees its arrays
func (h *Handlers) ReleaseDataset(c *gin.Context) {
	if !h.requireDatasets(c) {
		return
	}
	defer h.handlerMetrics.TrackDatasetOperation("release")()

	id := c.Param("id")

	// Validate dataset ID
	if err := utils.ValidateString(id, "dataset_id", 1, utils.MaxIDLength, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	released := h.datasets.Release(id)

	c.JSON(http.StatusOK, gin.H{
		"success":    released,
		"dataset_id": id,
	})
}
