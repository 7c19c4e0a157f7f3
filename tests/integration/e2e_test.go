//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
	"github.com/GridlineHQ/gridline/backend/tests/helpers/testutil"
)

func withDataset(id string, extra map[string]interface{}) map[string]interface{} {
	params := map[string]interface{}{"dataset_id": id}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// TestTomographyWorkflow drives the complete pipeline through the HTTP
// surface: load, normalize, drift correction, center finding,
// reconstruction, data retrieval, and release.
func TestTomographyWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping end-to-end test in short mode")
	}

	srv := newTestServer(t, testutil.NewMockTomoBackend(t))

	// The catalog now carries the tomo service.
	w := do(t, srv, http.MethodGet, "/services?category=tomo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog struct {
		Services []types.Service `json:"services"`
	}
	decode(t, w, &catalog)
	require.Len(t, catalog.Services, 1)
	assert.Equal(t, "tomo", catalog.Services[0].ID)

	// Load projections.
	result := executeTool(t, srv, "tomo.load", testutil.ProjParams(t))
	require.True(t, result.Success, "error: %v", result.Error)
	datasetID, ok := result.Data["dataset_id"].(string)
	require.True(t, ok)
	assert.Equal(t, "loaded", result.Data["state"])

	// The dataset REST surface sees it.
	w = do(t, srv, http.MethodGet, "/datasets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Success  bool                     `json:"success"`
		Datasets []map[string]interface{} `json:"datasets"`
	}
	decode(t, w, &listing)
	require.True(t, listing.Success)
	require.Len(t, listing.Datasets, 1)
	assert.Equal(t, datasetID, listing.Datasets[0]["id"])

	// Walk the pipeline in order.
	result = executeTool(t, srv, "tomo.normalize", withDataset(datasetID, nil))
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, "normalized", result.Data["state"])

	result = executeTool(t, srv, "tomo.correct_drift", withDataset(datasetID, map[string]interface{}{"air": 2.0}))
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, "drift_corrected", result.Data["state"])

	result = executeTool(t, srv, "tomo.find_center", withDataset(datasetID, nil))
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, 1.5, result.Data["center"])

	result = executeTool(t, srv, "tomo.gridrec", withDataset(datasetID, nil))
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, "reconstructed", result.Data["state"])
	assert.Equal(t, []interface{}{2.0, 3.0, 3.0}, result.Data["shape"])
	assert.Equal(t, 1.5, result.Data["center"])

	result = executeTool(t, srv, "tomo.data", withDataset(datasetID, nil))
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, "float64", result.Data["dtype"])

	// Stages refuse to run out of order.
	result = executeTool(t, srv, "tomo.normalize", withDataset(datasetID, nil))
	require.False(t, result.Success)
	assert.Contains(t, *result.Error, "invalid stage")

	// Snapshot via REST.
	w = do(t, srv, http.MethodGet, "/datasets/"+datasetID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot struct {
		Success bool                   `json:"success"`
		Dataset map[string]interface{} `json:"dataset"`
	}
	decode(t, w, &snapshot)
	require.True(t, snapshot.Success)
	assert.Equal(t, "reconstructed", snapshot.Dataset["state"])
	assert.Equal(t, 1.5, snapshot.Dataset["center"])

	// Health reports the resident dataset.
	w = do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Tomography struct {
			Enabled  bool `json:"enabled"`
			Datasets struct {
				Total int `json:"total"`
			} `json:"datasets"`
		} `json:"tomography"`
	}
	decode(t, w, &health)
	assert.True(t, health.Tomography.Enabled)
	assert.Equal(t, 1, health.Tomography.Datasets.Total)

	// Release and verify it is gone.
	w = do(t, srv, http.MethodDelete, "/datasets/"+datasetID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var released map[string]interface{}
	decode(t, w, &released)
	assert.Equal(t, true, released["success"])

	w = do(t, srv, http.MethodGet, "/datasets/"+datasetID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
