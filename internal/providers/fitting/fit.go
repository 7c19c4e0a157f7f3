package fitting

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/id"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	domain "github.com/GridlineHQ/gridline/backend/internal/domain/fitting"
)

// decodeModel builds a model from the "model" parameter, which may be a
// spec object or a JSON/YAML string.
func decodeModel(params map[string]interface{}) (domain.Model, *types.Result) {
	raw, ok := params["model"]
	if !ok {
		return nil, failure("model parameter required")
	}

	var content []byte
	switch v := raw.(type) {
	case string:
		content = []byte(v)
	case map[string]interface{}:
		blob, err := sonic.Marshal(v)
		if err != nil {
			return nil, failure(fmt.Sprintf("model: %v", err))
		}
		content = blob
	default:
		return nil, failure("model must be a spec object or a JSON/YAML string")
	}

	model, err := domain.ParseModelSpec(content)
	if err != nil {
		f, _ := common.DomainFailure(err)
		return nil, f
	}
	return model, nil
}

func failure(msg string) *types.Result {
	return &types.Result{Success: false, Error: &msg}
}

// resultData flattens a fit result for transport.
func resultData(r *domain.Result) map[string]interface{} {
	return map[string]interface{}{
		"values":      r.Values,
		"curve":       r.Curve,
		"chi_square":  r.ChiSquare,
		"reduced_chi": r.ReducedChi,
		"r_squared":   r.RSquared,
	}
}

// fit fits a model to a single dataset
func (p *Provider) fit(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	model, fail := decodeModel(params)
	if fail != nil {
		return fail, nil
	}
	x, ok := common.GetNumbers(params, "x")
	if !ok {
		return common.Failure("x parameter required (numeric array)")
	}
	y, ok := common.GetNumbers(params, "y")
	if !ok {
		return common.Failure("y parameter required (numeric array)")
	}

	result, err := p.engine.Fit(model, x, y)
	if err != nil {
		return common.DomainFailure(err)
	}

	data := resultData(result)
	data["fit_id"] = id.NewFitID().String()
	data["model"] = model.Name()
	return common.Success(data)
}

// fitList fits the same model to each dataset in sequence
func (p *Provider) fitList(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	model, fail := decodeModel(params)
	if fail != nil {
		return fail, nil
	}
	rawSets, ok := params["datasets"].([]interface{})
	if !ok {
		return common.Failure("datasets parameter required (array of {x, y} objects)")
	}

	samples := make([]domain.Sample, 0, len(rawSets))
	for i, raw := range rawSets {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return common.Failuref("datasets[%d] must be an {x, y} object", i)
		}
		x, ok := common.GetNumbers(obj, "x")
		if !ok {
			return common.Failuref("datasets[%d]: x required (numeric array)", i)
		}
		y, ok := common.GetNumbers(obj, "y")
		if !ok {
			return common.Failuref("datasets[%d]: y required (numeric array)", i)
		}
		samples = append(samples, domain.Sample{X: x, Y: y})
	}

	results, err := p.engine.FitList(model, samples)
	if err != nil {
		return common.DomainFailure(err)
	}

	flattened := make([]interface{}, len(results))
	for i, r := range results {
		flattened[i] = resultData(r)
	}
	return common.Success(map[string]interface{}{
		"fit_id":  id.NewFitID().String(),
		"model":   model.Name(),
		"results": flattened,
		"count":   len(flattened),
	})
}
