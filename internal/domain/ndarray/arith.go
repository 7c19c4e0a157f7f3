package ndarray

import (
	"fmt"
	"math"

	gfloats "gonum.org/v1/gonum/floats"
)

// aligned describes two operands prepared for elementwise iteration:
// scalars broadcast against arrays, array pairs must match exactly.
type aligned struct {
	shape  []int
	n      int
	x1, x2 *Array
	s1, s2 int // flat index strides: 0 for a broadcast scalar, 1 otherwise
}

func align(x1, x2 *Array) (*aligned, error) {
	switch {
	case x1.IsScalar() && x2.IsScalar():
		return &aligned{shape: nil, n: 1, x1: x1, x2: x2, s1: 0, s2: 0}, nil
	case x1.IsScalar():
		return &aligned{shape: x2.Shape(), n: x2.Len(), x1: x1, x2: x2, s1: 0, s2: 1}, nil
	case x2.IsScalar():
		return &aligned{shape: x1.Shape(), n: x1.Len(), x1: x1, x2: x2, s1: 1, s2: 0}, nil
	default:
		if !x1.ShapeEqual(x2) {
			return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, x1.shape, x2.shape)
		}
		return &aligned{shape: x1.Shape(), n: x1.Len(), x1: x1, x2: x2, s1: 1, s2: 1}, nil
	}
}

// fastFloatPair reports whether both operands are float arrays of identical
// shape, the case the gonum vectorized kernels handle directly.
func fastFloatPair(p *aligned) bool {
	return p.s1 == 1 && p.s2 == 1 && p.x1.dtype == Float64 && p.x2.dtype == Float64
}

func binaryNumeric(x1, x2 *Array, fi func(int64, int64) int64, ff func(float64, float64) float64, fv func(dst, s []float64)) (*Array, error) {
	p, err := align(x1, x2)
	if err != nil {
		return nil, err
	}

	if fv != nil && fastFloatPair(p) {
		out := make([]float64, p.n)
		copy(out, p.x1.floats)
		fv(out, p.x2.floats)
		return &Array{shape: p.shape, dtype: Float64, floats: out}, nil
	}

	switch promote(x1.dtype, x2.dtype) {
	case Int64:
		out := make([]int64, p.n)
		for i := 0; i < p.n; i++ {
			out[i] = fi(p.x1.intAt(i*p.s1), p.x2.intAt(i*p.s2))
		}
		return &Array{shape: p.shape, dtype: Int64, ints: out}, nil
	default:
		out := make([]float64, p.n)
		for i := 0; i < p.n; i++ {
			out[i] = ff(p.x1.floatAt(i*p.s1), p.x2.floatAt(i*p.s2))
		}
		return &Array{shape: p.shape, dtype: Float64, floats: out}, nil
	}
}

// Add returns the elementwise sum
func Add(x1, x2 *Array) (*Array, error) {
	return binaryNumeric(x1, x2,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b },
		gfloats.Add)
}

// Sub returns the elementwise difference x1 - x2
func Sub(x1, x2 *Array) (*Array, error) {
	return binaryNumeric(x1, x2,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b },
		gfloats.Sub)
}

// Mul returns the elementwise product
func Mul(x1, x2 *Array) (*Array, error) {
	return binaryNumeric(x1, x2,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b },
		gfloats.Mul)
}

// checkDenominator rejects a zero scalar denominator or an array
// denominator containing any zero element, before any division runs.
func checkDenominator(x2 *Array) error {
	n := x2.Len()
	for i := 0; i < n; i++ {
		if x2.floatAt(i) == 0 {
			if x2.IsScalar() {
				return fmt.Errorf("%w: zero denominator", ErrDivisionByZero)
			}
			return fmt.Errorf("%w: denominator contains zero elements", ErrDivisionByZero)
		}
	}
	return nil
}

// Div returns the elementwise quotient x1 / x2. The denominator is checked
// for zeros first; integer operands divide with truncation toward zero.
func Div(x1, x2 *Array) (*Array, error) {
	if err := checkDenominator(x2); err != nil {
		return nil, err
	}
	return binaryNumeric(x1, x2,
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b },
		gfloats.Div)
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// FloorDiv returns the elementwise floored quotient x1 // x2
func FloorDiv(x1, x2 *Array) (*Array, error) {
	if err := checkDenominator(x2); err != nil {
		return nil, err
	}
	return binaryNumeric(x1, x2,
		floorDivInt,
		func(a, b float64) float64 { return math.Floor(a / b) },
		nil)
}

// Mod returns the elementwise floored remainder: the result takes the sign
// of the divisor, so Mod(-7, 3) is 2 and Mod(7, -3) is -2.
func Mod(x1, x2 *Array) (*Array, error) {
	if err := checkDenominator(x2); err != nil {
		return nil, err
	}
	return binaryNumeric(x1, x2, floorModInt, floorModFloat, nil)
}

func powInt(a, b int64) int64 {
	result := int64(1)
	base := a
	for b > 0 {
		if b&1 == 1 {
			result *= base
		}
		base *= base
		b >>= 1
	}
	return result
}

// Pow returns elementwise exponentiation x1 ** x2. Integer bases with
// non-negative integer exponents stay integer; a negative exponent
// promotes the result to float.
func Pow(x1, x2 *Array) (*Array, error) {
	if promote(x1.dtype, x2.dtype) == Int64 {
		nonNegative := true
		for i, n := 0, x2.Len(); i < n; i++ {
			if x2.intAt(i) < 0 {
				nonNegative = false
				break
			}
		}
		if nonNegative {
			return binaryNumeric(x1, x2, powInt, math.Pow, nil)
		}
		p, err := align(x1, x2)
		if err != nil {
			return nil, err
		}
		out := make([]float64, p.n)
		for i := 0; i < p.n; i++ {
			out[i] = math.Pow(p.x1.floatAt(i*p.s1), p.x2.floatAt(i*p.s2))
		}
		return &Array{shape: p.shape, dtype: Float64, floats: out}, nil
	}
	return binaryNumeric(x1, x2, powInt, math.Pow, nil)
}

// Neg returns the elementwise negation. Boolean operands coerce to integer.
func Neg(x *Array) *Array {
	n := x.Len()
	if x.dtype == Float64 {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = -x.floats[i]
		}
		return &Array{shape: x.Shape(), dtype: Float64, floats: out}
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = -x.intAt(i)
	}
	return &Array{shape: x.Shape(), dtype: Int64, ints: out}
}
