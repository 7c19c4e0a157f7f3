package imgproc

import (
	"context"
	"fmt"
	"strings"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
	"github.com/GridlineHQ/gridline/backend/internal/domain/ops"
)

// Limits bounds the inputs a single tool call may carry. Zero values fall
// back to the shared defaults.
type Limits struct {
	MaxArrayElements    int
	MaxExpressionLength int
}

// Provider implements elementwise array math and expression evaluation
type Provider struct {
	limits Limits
}

// NewProvider creates an image math provider
func NewProvider(limits Limits) *Provider {
	if limits.MaxArrayElements <= 0 {
		limits.MaxArrayElements = utils.MaxArrayElements
	}
	if limits.MaxExpressionLength <= 0 {
		limits.MaxExpressionLength = utils.MaxExpressionLength
	}
	return &Provider{limits: limits}
}

// operand decodes a parameter into an array and applies the element cap.
func (p *Provider) operand(params map[string]interface{}, key string) (*ndarray.Array, error) {
	arr, err := common.GetOperand(params, key)
	if err != nil {
		return nil, err
	}
	if err := p.checkElements(key, arr); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Provider) checkElements(name string, arr *ndarray.Array) error {
	if n := arr.Len(); n > p.limits.MaxArrayElements {
		return fmt.Errorf("%s: %d elements exceeds limit of %d", name, n, p.limits.MaxArrayElements)
	}
	return nil
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "imgproc",
		Name:        "Image Math Service",
		Description: "Elementwise arithmetic, logical operations, and infix expressions over numeric arrays",
		Category:    types.CategoryCompute,
		Capabilities: []string{
			"arithmetic",
			"logical",
			"expressions",
			"broadcasting",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "imgproc.arithmetic",
			Name:        "Arithmetic Operation",
			Description: "Apply an elementwise arithmetic operation: " + strings.Join(ops.ArithmeticOps(), ", "),
			Parameters: []types.Parameter{
				{Name: "op", Type: "string", Description: "Operation name (long forms like 'addition' accepted)", Required: true},
				{Name: "x1", Type: "array", Description: "First operand (array or scalar)", Required: true},
				{Name: "x2", Type: "array", Description: "Second operand (array or scalar)", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "imgproc.logical",
			Name:        "Logical Operation",
			Description: "Apply an elementwise logical operation: " + strings.Join(ops.LogicalOps(), ", "),
			Parameters: []types.Parameter{
				{Name: "op", Type: "string", Description: "Operation name ('not' is unary)", Required: true},
				{Name: "x1", Type: "array", Description: "First operand (array or scalar)", Required: true},
				{Name: "x2", Type: "array", Description: "Second operand, ignored by 'not'", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "imgproc.evaluate",
			Name:        "Evaluate Expression",
			Description: "Evaluate an infix expression over symbols A..H bound to array or scalar parameters",
			Parameters: []types.Parameter{
				{Name: "expression", Type: "string", Description: "Infix expression, e.g. \"(A + B) / (C + D)\"", Required: true},
				{Name: "A", Type: "array", Description: "Operand bound to symbol A", Required: false},
				{Name: "B", Type: "array", Description: "Operand bound to symbol B", Required: false},
				{Name: "C", Type: "array", Description: "Operand bound to symbol C", Required: false},
				{Name: "D", Type: "array", Description: "Operand bound to symbol D", Required: false},
				{Name: "E", Type: "array", Description: "Operand bound to symbol E", Required: false},
				{Name: "F", Type: "array", Description: "Operand bound to symbol F", Required: false},
				{Name: "G", Type: "array", Description: "Operand bound to symbol G", Required: false},
				{Name: "H", Type: "array", Description: "Operand bound to symbol H", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "imgproc.symbols",
			Name:        "List Expression Symbols",
			Description: "Parse an expression and list its referenced symbols in first-appearance order",
			Parameters: []types.Parameter{
				{Name: "expression", Type: "string", Description: "Infix expression to inspect", Required: true},
			},
			Returns: "object",
		},
	}
}

// Execute runs an image math operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "imgproc.arithmetic":
		return p.arithmetic(ctx, params)
	case "imgproc.logical":
		return p.logical(ctx, params)
	case "imgproc.evaluate":
		return p.evaluate(ctx, params)
	case "imgproc.symbols":
		return p.symbols(ctx, params)
	default:
		return common.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// arrayResult packs an operation output for transport.
func arrayResult(a *ndarray.Array) (*types.Result, error) {
	shape := a.Shape()
	if shape == nil {
		shape = []int{}
	}
	return common.Success(map[string]interface{}{
		"result": a.ToJSONValue(),
		"dtype":  a.DType().String(),
		"shape":  shape,
	})
}
