package fitting

import (
	"context"
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	domain "github.com/GridlineHQ/gridline/backend/internal/domain/fitting"
)

// Provider implements nonlinear least-squares fitting
type Provider struct {
	engine *domain.Engine
}

// NewProvider creates a fitting provider
func NewProvider(cfg domain.Config) *Provider {
	return &Provider{engine: domain.NewEngine(cfg)}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "fitting",
		Name:        "Curve Fitting Service",
		Description: "Nonlinear least-squares fitting with composite and expression models",
		Category:    types.CategoryFitting,
		Capabilities: []string{
			"least_squares",
			"composite_models",
			"expression_models",
			"bounded_parameters",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "fitting.fit",
			Name:        "Fit Model",
			Description: "Fit a model to one dataset and report parameter values and fit statistics",
			Parameters: []types.Parameter{
				{Name: "model", Type: "object", Description: "Model spec (object, or JSON/YAML string)", Required: true},
				{Name: "x", Type: "array", Description: "Sample positions", Required: true},
				{Name: "y", Type: "array", Description: "Sample values", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "fitting.fit_list",
			Name:        "Fit Model to Dataset List",
			Description: "Fit the same model to each dataset in sequence",
			Parameters: []types.Parameter{
				{Name: "model", Type: "object", Description: "Model spec (object, or JSON/YAML string)", Required: true},
				{Name: "datasets", Type: "array", Description: "Datasets as {x, y} objects", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "fitting.eval",
			Name:        "Evaluate Model",
			Description: "Evaluate a model curve at given positions without fitting",
			Parameters: []types.Parameter{
				{Name: "model", Type: "object", Description: "Model spec (object, or JSON/YAML string)", Required: true},
				{Name: "x", Type: "array", Description: "Positions to evaluate at", Required: true},
				{Name: "values", Type: "object", Description: "Parameter overrides (name to number)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "fitting.models",
			Name:        "List Model Builders",
			Description: "List available model builders with their parameters and defaults",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// Execute runs a fitting operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "fitting.fit":
		return p.fit(ctx, params)
	case "fitting.fit_list":
		return p.fitList(ctx, params)
	case "fitting.eval":
		return p.eval(ctx, params)
	case "fitting.models":
		return p.models(ctx, params)
	default:
		return common.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
