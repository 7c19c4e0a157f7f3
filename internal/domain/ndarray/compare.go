package ndarray

// binaryCompare applies a comparison elementwise, producing a boolean
// result. Integer pairs compare exactly; any float operand compares in
// float space.
func binaryCompare(x1, x2 *Array, fi func(int64, int64) bool, ff func(float64, float64) bool) (*Array, error) {
	p, err := align(x1, x2)
	if err != nil {
		return nil, err
	}
	out := make([]bool, p.n)
	if promote(x1.dtype, x2.dtype) == Int64 {
		for i := 0; i < p.n; i++ {
			out[i] = fi(p.x1.intAt(i*p.s1), p.x2.intAt(i*p.s2))
		}
	} else {
		for i := 0; i < p.n; i++ {
			out[i] = ff(p.x1.floatAt(i*p.s1), p.x2.floatAt(i*p.s2))
		}
	}
	return &Array{shape: p.shape, dtype: Bool, bools: out}, nil
}

// Gt returns the elementwise comparison x1 > x2
func Gt(x1, x2 *Array) (*Array, error) {
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a > b },
		func(a, b float64) bool { return a > b })
}

// Ge returns the elementwise comparison x1 >= x2
func Ge(x1, x2 *Array) (*Array, error) {
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a >= b },
		func(a, b float64) bool { return a >= b })
}

// Lt returns the elementwise comparison x1 < x2
func Lt(x1, x2 *Array) (*Array, error) {
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a < b },
		func(a, b float64) bool { return a < b })
}

// Le returns the elementwise comparison x1 <= x2
func Le(x1, x2 *Array) (*Array, error) {
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a <= b },
		func(a, b float64) bool { return a <= b })
}

// Eq returns the elementwise equality x1 == x2
func Eq(x1, x2 *Array) (*Array, error) {
	if x1.dtype == Bool && x2.dtype == Bool {
		return binaryBool(x1, x2, func(a, b bool) bool { return a == b })
	}
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a == b },
		func(a, b float64) bool { return a == b })
}

// Ne returns the elementwise inequality x1 != x2
func Ne(x1, x2 *Array) (*Array, error) {
	if x1.dtype == Bool && x2.dtype == Bool {
		return binaryBool(x1, x2, func(a, b bool) bool { return a != b })
	}
	return binaryCompare(x1, x2,
		func(a, b int64) bool { return a != b },
		func(a, b float64) bool { return a != b })
}
