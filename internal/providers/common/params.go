package common

import (
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// GetString extracts string from params
func GetString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	return val, ok
}

// GetNumber extracts float64 from params with type coercion
func GetNumber(params map[string]interface{}, key string) (float64, bool) {
	val, ok := params[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetInt extracts an integer from params. Fractional values are rejected.
func GetInt(params map[string]interface{}, key string) (int, bool) {
	v, ok := GetNumber(params, key)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

// GetBool extracts bool from params
func GetBool(params map[string]interface{}, key string) (bool, bool) {
	val, ok := params[key].(bool)
	return val, ok
}

// GetNumbers extracts array of numbers with type coercion
func GetNumbers(params map[string]interface{}, key string) ([]float64, bool) {
	arr, ok := params[key].([]interface{})
	if !ok {
		return nil, false
	}

	numbers := make([]float64, 0, len(arr))
	for _, v := range arr {
		switch num := v.(type) {
		case float64:
			numbers = append(numbers, num)
		case int:
			numbers = append(numbers, float64(num))
		case int64:
			numbers = append(numbers, float64(num))
		case float32:
			numbers = append(numbers, float64(num))
		default:
			return nil, false
		}
	}
	return numbers, true
}

// GetMap extracts a nested object from params
func GetMap(params map[string]interface{}, key string) (map[string]interface{}, bool) {
	val, ok := params[key].(map[string]interface{})
	return val, ok
}

// GetOperand decodes a decoded-JSON parameter (scalar, bool, or nested
// array) into an ndarray operand.
func GetOperand(params map[string]interface{}, key string) (*ndarray.Array, error) {
	val, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("%s parameter required", key)
	}
	arr, err := ndarray.FromJSONValue(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return arr, nil
}

// GetOptionalOperand decodes an operand when the key is present and
// returns nil without error when it is not.
func GetOptionalOperand(params map[string]interface{}, key string) (*ndarray.Array, error) {
	if _, ok := params[key]; !ok {
		return nil, nil
	}
	return GetOperand(params, key)
}
