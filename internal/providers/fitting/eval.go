package fitting

import (
	"context"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
)

// eval evaluates a model curve at given positions without fitting
func (p *Provider) eval(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	model, fail := decodeModel(params)
	if fail != nil {
		return fail, nil
	}
	x, ok := common.GetNumbers(params, "x")
	if !ok {
		return common.Failure("x parameter required (numeric array)")
	}

	values := model.Params().Values()
	if overrides, ok := common.GetMap(params, "values"); ok {
		for name := range overrides {
			if _, exists := values[name]; !exists {
				return common.Failuref("unknown parameter %q for model %s", name, model.Name())
			}
			num, ok := common.GetNumber(overrides, name)
			if !ok {
				return common.Failuref("values.%s must be numeric", name)
			}
			values[name] = num
		}
	}

	curve, err := model.Eval(values, x)
	if err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(map[string]interface{}{
		"model":  model.Name(),
		"values": values,
		"curve":  curve,
		"points": len(curve),
	})
}

// builderInfo describes one model builder for the catalog tool.
type builderInfo struct {
	name        string
	description string
	parameters  []string
	defaults    map[string]float64
}

var builders = []builderInfo{
	{
		name:        "gaussian",
		description: "Gaussian peak normalized to unit area",
		parameters:  []string{"area", "center", "sigma"},
		defaults:    map[string]float64{"area": 1, "center": 0, "sigma": 1},
	},
	{
		name:        "lorentzian",
		description: "Lorentzian peak normalized to unit area",
		parameters:  []string{"area", "center", "sigma"},
		defaults:    map[string]float64{"area": 1, "center": 0, "sigma": 1},
	},
	{
		name:        "lorentzian2",
		description: "Squared-denominator Lorentzian peak",
		parameters:  []string{"area", "center", "sigma"},
		defaults:    map[string]float64{"area": 1, "center": 0, "sigma": 1},
	},
	{
		name:        "quadratic",
		description: "Quadratic background a*x^2 + b*x + c",
		parameters:  []string{"a", "b", "c"},
		defaults:    map[string]float64{"a": 1, "b": 0, "c": 0},
	},
	{
		name:        "linear",
		description: "Linear background slope*x + intercept",
		parameters:  []string{"slope", "intercept"},
		defaults:    map[string]float64{"slope": 1, "intercept": 0},
	},
	{
		name:        "expression",
		description: "Infix expression of A (the x values) with fitted symbols B..H",
		parameters:  []string{"expression"},
		defaults:    map[string]float64{},
	},
}

// models lists the available model builders
func (p *Provider) models(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	catalog := make([]interface{}, len(builders))
	for i, b := range builders {
		catalog[i] = map[string]interface{}{
			"name":        b.name,
			"description": b.description,
			"parameters":  b.parameters,
			"defaults":    b.defaults,
		}
	}
	return common.Success(map[string]interface{}{
		"models": catalog,
		"count":  len(catalog),
	})
}
