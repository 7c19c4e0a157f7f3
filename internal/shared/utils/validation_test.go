package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateString(t *testing.T) {
	assert.NoError(t, ValidateString("hello", "name", 1, 10, true))
	assert.NoError(t, ValidateString("", "name", 1, 10, false))

	err := ValidateString("", "name", 1, 10, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	err = ValidateString("ab", "name", 3, 10, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3")

	err = ValidateString(strings.Repeat("x", 11), "name", 1, 10, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed 10")

	err = ValidateString("bad\x00byte", "name", 1, 10, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")
}

func TestValidateToolID(t *testing.T) {
	assert.NoError(t, ValidateToolID("imgproc.arithmetic", "tool_id", true))
	assert.NoError(t, ValidateToolID("tomo.correct_drift", "tool_id", true))
	assert.NoError(t, ValidateToolID("", "tool_id", false))

	require.Error(t, ValidateToolID("", "tool_id", true))
	require.Error(t, ValidateToolID("math ops", "tool_id", true))
	require.Error(t, ValidateToolID("svc/tool", "tool_id", true))
	require.Error(t, ValidateToolID(strings.Repeat("a", MaxIDLength+1), "tool_id", true))
}

func TestValidateExpression(t *testing.T) {
	assert.NoError(t, ValidateExpression("(A + B) / C", 0))

	// Emptiness is the parser's problem, not a validation failure.
	assert.NoError(t, ValidateExpression("", 0))

	err := ValidateExpression(strings.Repeat("A+", MaxExpressionLength)+"A", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed")

	// A configured limit overrides the default.
	assert.NoError(t, ValidateExpression("A + B", 16))
	require.Error(t, ValidateExpression("A + B + C + D + E", 16))
}

func TestValidateJSONDepth(t *testing.T) {
	shallow := map[string]interface{}{"a": []interface{}{1.0, 2.0}}
	assert.NoError(t, ValidateJSONDepth(shallow, 3))

	deep := interface{}(1.0)
	for i := 0; i < 6; i++ {
		deep = []interface{}{deep}
	}
	err := ValidateJSONDepth(deep, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting depth")
}
