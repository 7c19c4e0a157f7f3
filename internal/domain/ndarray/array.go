package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// Array is an immutable multi-dimensional numeric operand: a homogeneous
// array with a row-major flat backing store, or a scalar (rank 0, one
// element). Operations never mutate an Array; they return fresh values.
type Array struct {
	shape  []int
	dtype  DType
	bools  []bool
	ints   []int64
	floats []float64
}

func numElems(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func validShape(shape []int) error {
	for _, d := range shape {
		if d <= 0 {
			return fmt.Errorf("%w: dimension %d must be positive", ErrBadShape, d)
		}
	}
	return nil
}

// FromFloat64 creates a float scalar
func FromFloat64(v float64) *Array {
	return &Array{shape: nil, dtype: Float64, floats: []float64{v}}
}

// FromInt64 creates an integer scalar
func FromInt64(v int64) *Array {
	return &Array{shape: nil, dtype: Int64, ints: []int64{v}}
}

// FromBool creates a boolean scalar
func FromBool(v bool) *Array {
	return &Array{shape: nil, dtype: Bool, bools: []bool{v}}
}

// FromFloats creates a float array from row-major data and a shape
func FromFloats(data []float64, shape ...int) (*Array, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	if len(data) != numElems(shape) {
		return nil, fmt.Errorf("%w: %d elements do not fill shape %v", ErrBadShape, len(data), shape)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Array{shape: append([]int(nil), shape...), dtype: Float64, floats: cp}, nil
}

// FromInts creates an integer array from row-major data and a shape
func FromInts(data []int64, shape ...int) (*Array, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	if len(data) != numElems(shape) {
		return nil, fmt.Errorf("%w: %d elements do not fill shape %v", ErrBadShape, len(data), shape)
	}
	cp := make([]int64, len(data))
	copy(cp, data)
	return &Array{shape: append([]int(nil), shape...), dtype: Int64, ints: cp}, nil
}

// FromBools creates a boolean array from row-major data and a shape
func FromBools(data []bool, shape ...int) (*Array, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	if len(data) != numElems(shape) {
		return nil, fmt.Errorf("%w: %d elements do not fill shape %v", ErrBadShape, len(data), shape)
	}
	cp := make([]bool, len(data))
	copy(cp, data)
	return &Array{shape: append([]int(nil), shape...), dtype: Bool, bools: cp}, nil
}

// Zeros creates a zero-filled array of the given dtype and shape
func Zeros(dtype DType, shape ...int) (*Array, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	n := numElems(shape)
	a := &Array{shape: append([]int(nil), shape...), dtype: dtype}
	switch dtype {
	case Bool:
		a.bools = make([]bool, n)
	case Int64:
		a.ints = make([]int64, n)
	case Float64:
		a.floats = make([]float64, n)
	}
	return a, nil
}

// Shape returns a copy of the dimension sizes; nil for scalars
func (a *Array) Shape() []int {
	if a.shape == nil {
		return nil
	}
	return append([]int(nil), a.shape...)
}

// DType returns the element type
func (a *Array) DType() DType { return a.dtype }

// Rank returns the number of dimensions; 0 for scalars
func (a *Array) Rank() int { return len(a.shape) }

// IsScalar reports whether the operand is a single value
func (a *Array) IsScalar() bool { return len(a.shape) == 0 }

// Len returns the total element count
func (a *Array) Len() int { return numElems(a.shape) }

// ShapeEqual reports whether two operands have identical shapes
func (a *Array) ShapeEqual(b *Array) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// floatAt reads the flat element i as float64, converting from the backing type
func (a *Array) floatAt(i int) float64 {
	switch a.dtype {
	case Float64:
		return a.floats[i]
	case Int64:
		return float64(a.ints[i])
	default:
		if a.bools[i] {
			return 1
		}
		return 0
	}
}

// intAt reads the flat element i as int64. Float values truncate toward zero.
func (a *Array) intAt(i int) int64 {
	switch a.dtype {
	case Int64:
		return a.ints[i]
	case Float64:
		return int64(a.floats[i])
	default:
		if a.bools[i] {
			return 1
		}
		return 0
	}
}

// boolAt reads the flat element i as a truth value (nonzero is true)
func (a *Array) boolAt(i int) bool {
	switch a.dtype {
	case Bool:
		return a.bools[i]
	case Int64:
		return a.ints[i] != 0
	default:
		return a.floats[i] != 0
	}
}

// FloatAt returns the flat element i converted to float64
func (a *Array) FloatAt(i int) float64 { return a.floatAt(i) }

// IntAt returns the flat element i converted to int64
func (a *Array) IntAt(i int) int64 { return a.intAt(i) }

// BoolAt returns the truth value of the flat element i
func (a *Array) BoolAt(i int) bool { return a.boolAt(i) }

// AsFloat64 returns the scalar value as float64
func (a *Array) AsFloat64() (float64, error) {
	if !a.IsScalar() {
		return 0, fmt.Errorf("%w: operand with shape %v is not a scalar", ErrBadValue, a.shape)
	}
	return a.floatAt(0), nil
}

// AsInt64 returns the scalar value as int64
func (a *Array) AsInt64() (int64, error) {
	if !a.IsScalar() {
		return 0, fmt.Errorf("%w: operand with shape %v is not a scalar", ErrBadValue, a.shape)
	}
	return a.intAt(0), nil
}

// AsBool returns the scalar truth value
func (a *Array) AsBool() (bool, error) {
	if !a.IsScalar() {
		return false, fmt.Errorf("%w: operand with shape %v is not a scalar", ErrBadValue, a.shape)
	}
	return a.boolAt(0), nil
}

// Float64s returns the elements converted to float64 (fresh slice)
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = a.floatAt(i)
	}
	return out
}

// Int64s returns the elements converted to int64 (fresh slice)
func (a *Array) Int64s() []int64 {
	out := make([]int64, a.Len())
	for i := range out {
		out[i] = a.intAt(i)
	}
	return out
}

// Bools returns the elements coerced to truth values (fresh slice)
func (a *Array) Bools() []bool {
	out := make([]bool, a.Len())
	for i := range out {
		out[i] = a.boolAt(i)
	}
	return out
}

// CastTo converts the operand to another element type. Float to int
// truncates toward zero; casts to bool apply truthiness.
func (a *Array) CastTo(dtype DType) *Array {
	if dtype == a.dtype {
		return a.clone()
	}
	out := &Array{shape: append([]int(nil), a.shape...), dtype: dtype}
	n := a.Len()
	switch dtype {
	case Bool:
		out.bools = a.Bools()
	case Int64:
		out.ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.ints[i] = a.intAt(i)
		}
	case Float64:
		out.floats = make([]float64, n)
		for i := 0; i < n; i++ {
			out.floats[i] = a.floatAt(i)
		}
	}
	return out
}

func (a *Array) clone() *Array {
	out := &Array{shape: append([]int(nil), a.shape...), dtype: a.dtype}
	switch a.dtype {
	case Bool:
		out.bools = append([]bool(nil), a.bools...)
	case Int64:
		out.ints = append([]int64(nil), a.ints...)
	case Float64:
		out.floats = append([]float64(nil), a.floats...)
	}
	return out
}

// Equal reports whether two operands have the same shape, dtype and elements
func (a *Array) Equal(b *Array) bool {
	if a.dtype != b.dtype || !a.ShapeEqual(b) {
		return false
	}
	n := a.Len()
	for i := 0; i < n; i++ {
		switch a.dtype {
		case Bool:
			if a.bools[i] != b.bools[i] {
				return false
			}
		case Int64:
			if a.ints[i] != b.ints[i] {
				return false
			}
		case Float64:
			if a.floats[i] != b.floats[i] {
				return false
			}
		}
	}
	return true
}

// String returns a short description for logs and errors
func (a *Array) String() string {
	if a.IsScalar() {
		switch a.dtype {
		case Bool:
			return fmt.Sprintf("%v", a.bools[0])
		case Int64:
			return fmt.Sprintf("%d", a.ints[0])
		default:
			return fmt.Sprintf("%g", a.floats[0])
		}
	}
	dims := make([]string, len(a.shape))
	for i, d := range a.shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("array(shape=[%s], dtype=%s)", strings.Join(dims, " "), a.dtype)
}

// FromJSONValue decodes a JSON-shaped value (bool, number, or arbitrarily
// nested lists of them) into an operand. Numbers become Int64 when every
// element is integral, Float64 otherwise; booleans and numbers cannot mix.
// Ragged nesting is rejected.
func FromJSONValue(v interface{}) (*Array, error) {
	shape, err := inferShape(v, 0)
	if err != nil {
		return nil, err
	}

	n := numElems(shape)
	floats := make([]float64, 0, n)
	var sawBool, sawNumber, sawFraction bool
	bools := make([]bool, 0, n)

	if err := flatten(v, shape, 0, &floats, &bools, &sawBool, &sawNumber, &sawFraction); err != nil {
		return nil, err
	}

	if sawBool && sawNumber {
		return nil, fmt.Errorf("%w: cannot mix booleans and numbers in one operand", ErrBadValue)
	}

	out := &Array{shape: shape}
	switch {
	case sawBool:
		out.dtype = Bool
		out.bools = bools
	case sawFraction:
		out.dtype = Float64
		out.floats = floats
	default:
		out.dtype = Int64
		out.ints = make([]int64, len(floats))
		for i, f := range floats {
			out.ints[i] = int64(f)
		}
	}
	if len(shape) == 0 && out.Len() != 1 {
		return nil, fmt.Errorf("%w: empty operand", ErrBadValue)
	}
	return out, nil
}

const maxNestingDepth = 32

func inferShape(v interface{}, depth int) ([]int, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrBadValue, maxNestingDepth)
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, nil // leaf: scalar at this level
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty dimension", ErrBadShape)
	}
	inner, err := inferShape(list[0], depth+1)
	if err != nil {
		return nil, err
	}
	return append([]int{len(list)}, inner...), nil
}

func flatten(v interface{}, shape []int, dim int, floats *[]float64, bools *[]bool, sawBool, sawNumber, sawFraction *bool) error {
	if dim == len(shape) {
		switch x := v.(type) {
		case bool:
			*sawBool = true
			*bools = append(*bools, x)
			*floats = append(*floats, 0)
			return nil
		case float64:
			*sawNumber = true
			if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
				*sawFraction = true
			}
			*floats = append(*floats, x)
			*bools = append(*bools, x != 0)
			return nil
		case int:
			*sawNumber = true
			*floats = append(*floats, float64(x))
			*bools = append(*bools, x != 0)
			return nil
		case int64:
			*sawNumber = true
			*floats = append(*floats, float64(x))
			*bools = append(*bools, x != 0)
			return nil
		default:
			return fmt.Errorf("%w: element %T is not numeric or boolean", ErrBadValue, v)
		}
	}

	list, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("%w: ragged nesting", ErrBadShape)
	}
	if len(list) != shape[dim] {
		return fmt.Errorf("%w: ragged nesting (expected %d elements, got %d)", ErrBadShape, shape[dim], len(list))
	}
	for _, item := range list {
		if err := flatten(item, shape, dim+1, floats, bools, sawBool, sawNumber, sawFraction); err != nil {
			return err
		}
	}
	return nil
}

// ToJSONValue converts the operand back to a JSON-shaped value: a bare
// bool/number for scalars, nested lists otherwise.
func (a *Array) ToJSONValue() interface{} {
	return a.nest(0, 0, a.Len())
}

func (a *Array) nest(dim, lo, hi int) interface{} {
	if dim == len(a.shape) {
		switch a.dtype {
		case Bool:
			return a.bools[lo]
		case Int64:
			return a.ints[lo]
		default:
			return a.floats[lo]
		}
	}
	span := (hi - lo) / a.shape[dim]
	out := make([]interface{}, a.shape[dim])
	for i := range out {
		out[i] = a.nest(dim+1, lo+i*span, lo+(i+1)*span)
	}
	return out
}
