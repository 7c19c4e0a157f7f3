package imgproc

import (
	"context"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ops"
)

// arithmetic applies a named elementwise arithmetic operation
func (p *Provider) arithmetic(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	op, ok := common.GetString(params, "op")
	if !ok {
		return common.Failure("op parameter required")
	}
	x1, err := p.operand(params, "x1")
	if err != nil {
		return common.Failure(err.Error())
	}
	x2, err := p.operand(params, "x2")
	if err != nil {
		return common.Failure(err.Error())
	}

	result, err := ops.Arithmetic(op, x1, x2)
	if err != nil {
		return common.DomainFailure(err)
	}
	return arrayResult(result)
}

// logical applies a named elementwise logical operation
func (p *Provider) logical(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	op, ok := common.GetString(params, "op")
	if !ok {
		return common.Failure("op parameter required")
	}
	x1, err := p.operand(params, "x1")
	if err != nil {
		return common.Failure(err.Error())
	}
	// "not" is unary, so x2 stays optional here and the ops layer
	// rejects binary operations that arrive without it.
	x2, err := common.GetOptionalOperand(params, "x2")
	if err != nil {
		return common.Failure(err.Error())
	}
	if x2 != nil {
		if err := p.checkElements("x2", x2); err != nil {
			return common.Failure(err.Error())
		}
	}

	result, err := ops.Logical(op, x1, x2)
	if err != nil {
		return common.DomainFailure(err)
	}
	return arrayResult(result)
}
