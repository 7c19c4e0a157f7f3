package ndarray

import "fmt"

func bitwiseOperands(x1, x2 *Array) error {
	if x1.dtype == Float64 || x2.dtype == Float64 {
		return fmt.Errorf("%w: bitwise operation requires integer or boolean operands", ErrInvalidDType)
	}
	return nil
}

// binaryBitwise applies an integer bit function elementwise. Two boolean
// operands keep a boolean result; any integer operand promotes to integer.
func binaryBitwise(x1, x2 *Array, f func(int64, int64) int64) (*Array, error) {
	if err := bitwiseOperands(x1, x2); err != nil {
		return nil, err
	}
	if x1.dtype == Bool && x2.dtype == Bool {
		return binaryBool(x1, x2, func(a, b bool) bool {
			var ia, ib int64
			if a {
				ia = 1
			}
			if b {
				ib = 1
			}
			return f(ia, ib) != 0
		})
	}
	p, err := align(x1, x2)
	if err != nil {
		return nil, err
	}
	out := make([]int64, p.n)
	for i := 0; i < p.n; i++ {
		out[i] = f(p.x1.intAt(i*p.s1), p.x2.intAt(i*p.s2))
	}
	return &Array{shape: p.shape, dtype: Int64, ints: out}, nil
}

// BitAnd returns the elementwise bitwise AND
func BitAnd(x1, x2 *Array) (*Array, error) {
	return binaryBitwise(x1, x2, func(a, b int64) int64 { return a & b })
}

// BitOr returns the elementwise bitwise OR
func BitOr(x1, x2 *Array) (*Array, error) {
	return binaryBitwise(x1, x2, func(a, b int64) int64 { return a | b })
}

// BitXor returns the elementwise bitwise XOR
func BitXor(x1, x2 *Array) (*Array, error) {
	return binaryBitwise(x1, x2, func(a, b int64) int64 { return a ^ b })
}

// BitNot returns the elementwise bitwise complement. Boolean operands
// invert in place of two's-complement negation.
func BitNot(x *Array) (*Array, error) {
	switch x.dtype {
	case Float64:
		return nil, fmt.Errorf("%w: bitwise operation requires integer or boolean operands", ErrInvalidDType)
	case Bool:
		return LogicalNot(x), nil
	default:
		n := x.Len()
		out := make([]int64, n)
		for i := 0; i < n; i++ {
			out[i] = ^x.ints[i]
		}
		return &Array{shape: x.Shape(), dtype: Int64, ints: out}, nil
	}
}
