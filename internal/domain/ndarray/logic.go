package ndarray

// binaryBool applies a boolean function elementwise after coercing both
// operands to truth values (nonzero is true).
func binaryBool(x1, x2 *Array, f func(bool, bool) bool) (*Array, error) {
	p, err := align(x1, x2)
	if err != nil {
		return nil, err
	}
	out := make([]bool, p.n)
	for i := 0; i < p.n; i++ {
		out[i] = f(p.x1.boolAt(i*p.s1), p.x2.boolAt(i*p.s2))
	}
	return &Array{shape: p.shape, dtype: Bool, bools: out}, nil
}

// LogicalAnd returns elementwise x1 AND x2 over boolean-coerced operands
func LogicalAnd(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return a && b })
}

// LogicalOr returns elementwise x1 OR x2
func LogicalOr(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return a || b })
}

// LogicalXor returns elementwise x1 XOR x2
func LogicalXor(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return a != b })
}

// LogicalNand returns elementwise NOT (x1 AND x2)
func LogicalNand(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return !(a && b) })
}

// LogicalNor returns elementwise NOT (x1 OR x2)
func LogicalNor(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return !(a || b) })
}

// LogicalSub returns the elementwise set difference x1 AND NOT x2
func LogicalSub(x1, x2 *Array) (*Array, error) {
	return binaryBool(x1, x2, func(a, b bool) bool { return a && !b })
}

// LogicalNot returns the elementwise boolean negation of a single operand
func LogicalNot(x *Array) *Array {
	n := x.Len()
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = !x.boolAt(i)
	}
	return &Array{shape: x.Shape(), dtype: Bool, bools: out}
}
