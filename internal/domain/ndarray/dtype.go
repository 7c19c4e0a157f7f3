package ndarray

// DType identifies the element type of an Array.
type DType uint8

const (
	Bool DType = iota
	Int64
	Float64
)

// String returns the dtype name
func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Size returns the element size in bytes
func (d DType) Size() int {
	switch d {
	case Bool:
		return 1
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// ParseDType parses a dtype name ("bool", "int", "int64", "float", "float64")
func ParseDType(s string) (DType, bool) {
	switch s {
	case "bool":
		return Bool, true
	case "int", "int64":
		return Int64, true
	case "float", "float64":
		return Float64, true
	default:
		return Bool, false
	}
}

// promote returns the result dtype of a numeric operation over two inputs:
// any float operand makes the result float, otherwise the result is integer
// (booleans coerce to integers under arithmetic).
func promote(a, b DType) DType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Int64
}
