package tomo

import (
	"context"
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	domain "github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// Provider exposes the tomography pipeline over a managed dataset store.
// It is only registered when an external backend is configured; every
// numerical stage delegates to that backend.
type Provider struct {
	manager *domain.Manager
}

// NewProvider creates a tomography provider around a dataset manager
func NewProvider(manager *domain.Manager) *Provider {
	return &Provider{manager: manager}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "tomo",
		Name:        "Tomography Service",
		Description: "Tomographic preprocessing and reconstruction over managed projection datasets",
		Category:    types.CategoryTomo,
		Capabilities: []string{
			"normalization",
			"drift_correction",
			"phase_retrieval",
			"center_finding",
			"reconstruction",
			"dataset_management",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	datasetParam := types.Parameter{Name: "dataset_id", Type: "string", Description: "Dataset handle from tomo.load", Required: true}

	return []types.Tool{
		{
			ID:          "tomo.load",
			Name:        "Load Dataset",
			Description: "Load a projection stack with reference frames and angles",
			Parameters: []types.Parameter{
				{Name: "proj", Type: "array", Description: "Projections, angles x rows x cols", Required: true},
				{Name: "white", Type: "array", Description: "White reference frame or stack", Required: true},
				{Name: "dark", Type: "array", Description: "Dark reference frame or stack", Required: true},
				{Name: "theta", Type: "array", Description: "Projection angles in radians, one per projection", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.normalize",
			Name:        "Normalize",
			Description: "Scale projections by the reference frames (Loaded -> Normalized)",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "in_place", Type: "boolean", Description: "Advance the dataset (default true); false returns the output without advancing", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.correct_drift",
			Name:        "Correct Drift",
			Description: "Compensate intensity drift using air columns (Normalized -> DriftCorrected)",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "air", Type: "number", Description: "Air columns at each edge (default 1)", Required: false},
				{Name: "in_place", Type: "boolean", Description: "Advance the dataset (default true); false returns the output without advancing", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.phase_retrieval",
			Name:        "Phase Retrieval",
			Description: "Replace absorption projections with phase-retrieved ones; state is unchanged",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "pixel_size", Type: "number", Description: "Detector pixel size in cm (default 1e-4)", Required: false},
				{Name: "dist", Type: "number", Description: "Sample-detector distance in cm (default 50)", Required: false},
				{Name: "energy", Type: "number", Description: "Beam energy in keV (default 20)", Required: false},
				{Name: "alpha", Type: "number", Description: "Regularization parameter (default 1e-3)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.find_center",
			Name:        "Find Rotation Center",
			Description: "Estimate and store the rotation center column",
			Parameters:  []types.Parameter{datasetParam},
			Returns:     "object",
		},
		{
			ID:          "tomo.diagnose_center",
			Name:        "Diagnose Rotation Center",
			Description: "Reconstruct one trial slice per candidate center without changing the dataset",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "center_start", Type: "number", Description: "First candidate center", Required: true},
				{Name: "center_end", Type: "number", Description: "Last candidate center", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.gridrec",
			Name:        "GridRec Reconstruction",
			Description: "Reconstruct with the gridrec algorithm (-> Reconstructed)",
			Parameters:  []types.Parameter{datasetParam},
			Returns:     "object",
		},
		{
			ID:          "tomo.sirt",
			Name:        "SIRT Reconstruction",
			Description: "Iterative SIRT reconstruction (-> Reconstructed)",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "iterations", Type: "number", Description: "Iteration count (default 10)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.art",
			Name:        "ART Reconstruction",
			Description: "Iterative ART reconstruction (-> Reconstructed)",
			Parameters: []types.Parameter{
				datasetParam,
				{Name: "iterations", Type: "number", Description: "Iteration count (default 10)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "tomo.data",
			Name:        "Extract Data",
			Description: "Return the dataset's current array (projections or reconstruction)",
			Parameters:  []types.Parameter{datasetParam},
			Returns:     "object",
		},
		{
			ID:          "tomo.state",
			Name:        "Dataset State",
			Description: "Return a snapshot of the dataset's pipeline state",
			Parameters:  []types.Parameter{datasetParam},
			Returns:     "object",
		},
		{
			ID:          "tomo.release",
			Name:        "Release Dataset",
			Description: "Drop a dataset and free its arrays",
			Parameters:  []types.Parameter{datasetParam},
			Returns:     "object",
		},
		{
			ID:          "tomo.list",
			Name:        "List Datasets",
			Description: "List loaded datasets with their states",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// Execute runs a tomography operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "tomo.load":
		return p.load(ctx, params)
	case "tomo.normalize":
		return p.normalize(ctx, params)
	case "tomo.correct_drift":
		return p.correctDrift(ctx, params)
	case "tomo.phase_retrieval":
		return p.phaseRetrieval(ctx, params)
	case "tomo.find_center":
		return p.findCenter(ctx, params)
	case "tomo.diagnose_center":
		return p.diagnoseCenter(ctx, params)
	case "tomo.gridrec":
		return p.gridrec(ctx, params)
	case "tomo.sirt":
		return p.sirt(ctx, params)
	case "tomo.art":
		return p.art(ctx, params)
	case "tomo.data":
		return p.data(ctx, params)
	case "tomo.state":
		return p.state(ctx, params)
	case "tomo.release":
		return p.release(ctx, params)
	case "tomo.list":
		return p.list(ctx, params)
	default:
		return common.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// getDataset resolves the dataset_id parameter to a managed dataset.
func (p *Provider) getDataset(params map[string]interface{}) (*domain.Dataset, *types.Result) {
	datasetID, ok := common.GetString(params, "dataset_id")
	if !ok {
		msg := "dataset_id parameter required"
		return nil, &types.Result{Success: false, Error: &msg}
	}
	ds, ok := p.manager.Get(datasetID)
	if !ok {
		msg := fmt.Sprintf("unknown dataset: %s", datasetID)
		return nil, &types.Result{Success: false, Error: &msg}
	}
	return ds, nil
}

// stateData reports a dataset's handle and pipeline state.
func stateData(ds *domain.Dataset) map[string]interface{} {
	return map[string]interface{}{
		"dataset_id": ds.ID(),
		"state":      string(ds.State()),
	}
}

// arrayData packs a stage output array for transport.
func arrayData(a *ndarray.Array) map[string]interface{} {
	shape := a.Shape()
	if shape == nil {
		shape = []int{}
	}
	return map[string]interface{}{
		"result": a.ToJSONValue(),
		"dtype":  a.DType().String(),
		"shape":  shape,
	}
}
