package imgproc

import (
	"context"
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	"github.com/GridlineHQ/gridline/backend/internal/domain/expr"
	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"
)

// evaluate interprets an infix expression over symbol parameters
func (p *Provider) evaluate(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	expression, ok := common.GetString(params, "expression")
	if !ok {
		return common.Failure("expression parameter required")
	}
	if err := utils.ValidateExpression(expression, p.limits.MaxExpressionLength); err != nil {
		return common.Failure(err.Error())
	}

	bindings, failure := p.bindSymbols(params)
	if failure != nil {
		return failure, nil
	}

	result, err := expr.Evaluate(expression, bindings)
	if err != nil {
		return common.DomainFailure(err)
	}
	return arrayResult(result)
}

// symbols lists the symbols an expression references
func (p *Provider) symbols(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	expression, ok := common.GetString(params, "expression")
	if !ok {
		return common.Failure("expression parameter required")
	}
	if err := utils.ValidateExpression(expression, p.limits.MaxExpressionLength); err != nil {
		return common.Failure(err.Error())
	}

	names, err := expr.FreeSymbols(expression)
	if err != nil {
		return common.DomainFailure(err)
	}
	if names == nil {
		names = []string{}
	}
	return common.Success(map[string]interface{}{
		"symbols": names,
		"count":   len(names),
	})
}

// bindSymbols decodes every non-reserved parameter into an expression
// binding. Out-of-set names are bound as-is so the evaluator can apply
// its own symbol validation order.
func (p *Provider) bindSymbols(params map[string]interface{}) (map[string]*ndarray.Array, *types.Result) {
	bindings := make(map[string]*ndarray.Array, len(params))
	for name, raw := range params {
		if name == "expression" {
			continue
		}
		arr, err := ndarray.FromJSONValue(raw)
		if err != nil {
			msg := fmt.Sprintf("operand %s: %v", name, err)
			return nil, &types.Result{Success: false, Error: &msg}
		}
		if err := p.checkElements(name, arr); err != nil {
			msg := err.Error()
			return nil, &types.Result{Success: false, Error: &msg}
		}
		bindings[name] = arr
	}
	return bindings, nil
}
