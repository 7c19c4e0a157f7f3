package imgproc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
)

func execute(t *testing.T, params map[string]interface{}, toolID string) *types.Result {
	t.Helper()
	return executeWith(t, NewProvider(Limits{}), params, toolID)
}

func executeWith(t *testing.T, p *Provider, params map[string]interface{}, toolID string) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func requireFailure(t *testing.T, result *types.Result, prefix string) {
	t.Helper()
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.True(t, strings.HasPrefix(*result.Error, prefix),
		"error %q should start with %q", *result.Error, prefix)
}

func grid(rows ...[]interface{}) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func row(vals ...interface{}) []interface{} { return vals }

func TestDefinition(t *testing.T) {
	def := NewProvider(Limits{}).Definition()

	assert.Equal(t, "imgproc", def.ID)
	assert.Equal(t, types.CategoryCompute, def.Category)
	require.Len(t, def.Tools, 4)
	for _, tool := range def.Tools {
		assert.True(t, strings.HasPrefix(tool.ID, "imgproc."), "tool %s", tool.ID)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	result := execute(t, nil, "imgproc.transmogrify")
	requireFailure(t, result, "unknown tool:")
}

func TestArithmetic(t *testing.T) {
	cross := grid(
		row(float64(0), float64(1), float64(0)),
		row(float64(1), float64(1), float64(1)),
		row(float64(0), float64(1), float64(0)),
	)
	diamond := grid(
		row(float64(2), float64(0), float64(2)),
		row(float64(0), float64(2), float64(0)),
		row(float64(2), float64(0), float64(2)),
	)

	t.Run("adds two grids", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "add", "x1": cross, "x2": diamond,
		}, "imgproc.arithmetic")

		require.True(t, result.Success)
		assert.Equal(t, []int{3, 3}, result.Data["shape"])
		assert.Equal(t, "int64", result.Data["dtype"])

		rows := result.Data["result"].([]interface{})
		assert.Equal(t, []interface{}{int64(2), int64(1), int64(2)}, rows[0])
		assert.Equal(t, []interface{}{int64(1), int64(3), int64(1)}, rows[1])
		assert.Equal(t, []interface{}{int64(2), int64(1), int64(2)}, rows[2])
	})

	t.Run("long-form names accepted", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "Multiplication", "x1": float64(6), "x2": float64(7),
		}, "imgproc.arithmetic")

		require.True(t, result.Success)
		assert.Equal(t, int64(42), result.Data["result"])
		assert.Equal(t, []int{}, result.Data["shape"])
	})

	t.Run("scalar broadcasts over array", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "multiply", "x1": cross, "x2": float64(10),
		}, "imgproc.arithmetic")

		require.True(t, result.Success)
		rows := result.Data["result"].([]interface{})
		assert.Equal(t, []interface{}{int64(0), int64(10), int64(0)}, rows[0])
	})

	t.Run("unknown operation", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "modulus", "x1": float64(1), "x2": float64(2),
		}, "imgproc.arithmetic")
		requireFailure(t, result, "unknown operation:")
		assert.Contains(t, *result.Error, "modulus")
	})

	t.Run("shape mismatch", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "add",
			"x1": row(float64(1), float64(2), float64(3)),
			"x2": row(float64(1), float64(2)),
		}, "imgproc.arithmetic")
		requireFailure(t, result, "shape mismatch")
	})

	t.Run("division by zero", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "divide",
			"x1": row(float64(4), float64(9)),
			"x2": row(float64(2), float64(0)),
		}, "imgproc.arithmetic")
		requireFailure(t, result, "division by zero")
	})

	t.Run("missing operands", func(t *testing.T) {
		result := execute(t, map[string]interface{}{"op": "add", "x1": float64(1)}, "imgproc.arithmetic")
		requireFailure(t, result, "x2 parameter required")

		result = execute(t, map[string]interface{}{"x1": float64(1), "x2": float64(2)}, "imgproc.arithmetic")
		requireFailure(t, result, "op parameter required")
	})

	t.Run("undecodable operand", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "add", "x1": "nope", "x2": float64(2),
		}, "imgproc.arithmetic")
		require.False(t, result.Success)
		assert.Contains(t, *result.Error, "x1")
	})
}

func TestLogical(t *testing.T) {
	a := row(true, true, false, false)
	b := row(true, false, true, false)

	t.Run("binary tables", func(t *testing.T) {
		tests := []struct {
			op   string
			want []interface{}
		}{
			{"and", row(true, false, false, false)},
			{"or", row(true, true, true, false)},
			{"xor", row(false, true, true, false)},
			{"nand", row(false, true, true, true)},
			{"nor", row(false, false, false, true)},
			{"sub", row(false, true, false, false)},
			{"subtract", row(false, true, false, false)},
		}

		for _, tt := range tests {
			t.Run(tt.op, func(t *testing.T) {
				result := execute(t, map[string]interface{}{
					"op": tt.op, "x1": a, "x2": b,
				}, "imgproc.logical")

				require.True(t, result.Success, "error: %v", result.Error)
				assert.Equal(t, "bool", result.Data["dtype"])
				assert.Equal(t, tt.want, result.Data["result"])
			})
		}
	})

	t.Run("not is unary", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "not", "x1": row(float64(0), float64(3)),
		}, "imgproc.logical")

		require.True(t, result.Success)
		assert.Equal(t, row(true, false), result.Data["result"])
	})

	t.Run("binary operation without x2", func(t *testing.T) {
		result := execute(t, map[string]interface{}{"op": "and", "x1": a}, "imgproc.logical")
		requireFailure(t, result, "operation")
		assert.Contains(t, *result.Error, "second operand")
	})

	t.Run("unknown operation", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "implies", "x1": a, "x2": b,
		}, "imgproc.logical")
		requireFailure(t, result, "unknown operation:")
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("ratio of sums", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "(A + B) / (C + D)",
			"A":          row(float64(1), float64(2)),
			"B":          row(float64(3), float64(4)),
			"C":          float64(1),
			"D":          float64(1),
		}, "imgproc.evaluate")

		require.True(t, result.Success, "error: %v", result.Error)
		assert.Equal(t, "int64", result.Data["dtype"])
		assert.Equal(t, row(int64(2), int64(3)), result.Data["result"])
	})

	t.Run("float promotion", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A * B",
			"A":          row(float64(1), float64(2)),
			"B":          float64(0.5),
		}, "imgproc.evaluate")

		require.True(t, result.Success)
		assert.Equal(t, "float64", result.Data["dtype"])
		assert.Equal(t, row(float64(0.5), float64(1)), result.Data["result"])
	})

	t.Run("syntax error", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A +",
			"A":          float64(1),
		}, "imgproc.evaluate")
		requireFailure(t, result, "syntax error")
	})

	t.Run("empty expression is a syntax error", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "  ",
		}, "imgproc.evaluate")
		requireFailure(t, result, "syntax error")
	})

	t.Run("unbound symbol", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A + Z",
			"A":          float64(1),
		}, "imgproc.evaluate")
		requireFailure(t, result, "unbound symbol")
		assert.Contains(t, *result.Error, "Z")
	})

	t.Run("bound out-of-set symbol is invalid", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A + Z",
			"A":          float64(1),
			"Z":          float64(2),
		}, "imgproc.evaluate")
		requireFailure(t, result, "invalid symbol")
	})

	t.Run("division by zero inside expression", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A / B",
			"A":          float64(1),
			"B":          row(float64(1), float64(0)),
		}, "imgproc.evaluate")
		requireFailure(t, result, "division by zero")
	})

	t.Run("oversized expression rejected", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A + " + strings.Repeat("1 + ", 400) + "1",
			"A":          float64(1),
		}, "imgproc.evaluate")
		require.False(t, result.Success)
		assert.Contains(t, *result.Error, "must not exceed")
	})

	t.Run("missing expression parameter", func(t *testing.T) {
		result := execute(t, map[string]interface{}{"A": float64(1)}, "imgproc.evaluate")
		requireFailure(t, result, "expression parameter required")
	})

	t.Run("undecodable binding", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A + B",
			"A":          float64(1),
			"B":          "two",
		}, "imgproc.evaluate")
		require.False(t, result.Success)
		assert.Contains(t, *result.Error, "operand B")
	})
}

func TestConfiguredLimits(t *testing.T) {
	p := NewProvider(Limits{MaxArrayElements: 4, MaxExpressionLength: 16})

	t.Run("element cap applies to operands", func(t *testing.T) {
		result := executeWith(t, p, map[string]interface{}{
			"op": "add",
			"x1": row(float64(1), float64(2), float64(3), float64(4), float64(5)),
			"x2": float64(1),
		}, "imgproc.arithmetic")
		requireFailure(t, result, "x1:")
		assert.Contains(t, *result.Error, "exceeds limit of 4")
	})

	t.Run("element cap applies to expression bindings", func(t *testing.T) {
		result := executeWith(t, p, map[string]interface{}{
			"expression": "A + 1",
			"A":          row(float64(1), float64(2), float64(3), float64(4), float64(5)),
		}, "imgproc.evaluate")
		require.False(t, result.Success)
		assert.Contains(t, *result.Error, "exceeds limit of 4")
	})

	t.Run("expression length cap comes from config", func(t *testing.T) {
		result := executeWith(t, p, map[string]interface{}{
			"expression": "A + B + C + D + E + F",
			"A":          float64(1),
		}, "imgproc.evaluate")
		require.False(t, result.Success)
		assert.Contains(t, *result.Error, "must not exceed 16")
	})

	t.Run("inputs inside the caps pass", func(t *testing.T) {
		result := executeWith(t, p, map[string]interface{}{
			"op": "add",
			"x1": row(float64(1), float64(2)),
			"x2": row(float64(3), float64(4)),
		}, "imgproc.arithmetic")
		require.True(t, result.Success, "error: %v", result.Error)
	})

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"op": "add",
			"x1": row(float64(1), float64(2), float64(3), float64(4), float64(5)),
			"x2": float64(1),
		}, "imgproc.arithmetic")
		require.True(t, result.Success, "error: %v", result.Error)
	})
}

func TestSymbols(t *testing.T) {
	t.Run("first-appearance order", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "B * (A + C) + B",
		}, "imgproc.symbols")

		require.True(t, result.Success)
		assert.Equal(t, []string{"B", "A", "C"}, result.Data["symbols"])
		assert.Equal(t, 3, result.Data["count"])
	})

	t.Run("no symbols", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "1 + 2",
		}, "imgproc.symbols")

		require.True(t, result.Success)
		assert.Equal(t, []string{}, result.Data["symbols"])
		assert.Equal(t, 0, result.Data["count"])
	})

	t.Run("syntax error", func(t *testing.T) {
		result := execute(t, map[string]interface{}{
			"expression": "A ++",
		}, "imgproc.symbols")
		requireFailure(t, result, "syntax error")
	})
}
