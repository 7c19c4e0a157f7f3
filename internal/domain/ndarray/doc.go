// Package ndarray provides dense numeric arrays and the elementwise kernels
// the compute providers dispatch to.
//
// Arrays are immutable once constructed: every kernel allocates its result and
// never writes through its operands, so a failed operation leaves no partial
// state behind.
//
// Key Components:
//   - Array: rank-N dense array over a bool, int64, or float64 backing store
//   - DType: element type with int/float promotion rules
//   - Arithmetic kernels: Add, Sub, Mul, Div, FloorDiv, Mod, Pow, Neg
//   - Comparison kernels: Gt, Ge, Lt, Le, Eq, Ne (boolean results)
//   - Logical kernels: LogicalAnd, LogicalOr, LogicalXor, LogicalNand,
//     LogicalNor, LogicalSub, LogicalNot (operands coerced to truth values)
//   - Bitwise kernels: BitAnd, BitOr, BitXor, BitNot (integer/boolean only)
//
// Shape Rules:
//   - Rank-0 arrays are scalars and broadcast against any shape
//   - Two non-scalar operands must match shape exactly (no general broadcasting)
//   - Division, floor division, and modulo reject zero denominators before
//     any element is computed
//
// Built on gonum.org/v1/gonum/floats for the float64 fast paths.
//
// Example:
//
//	a, _ := ndarray.FromFloats([]float64{1, 2, 3}, 3)
//	b := ndarray.FromFloat64(10)
//	sum, err := ndarray.Add(a, b) // [11 12 13]
package ndarray
