package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalTruthTables(t *testing.T) {
	// Inputs cover every combination of two truth values.
	x1 := bools(t, []bool{false, false, true, true}, 4)
	x2 := bools(t, []bool{false, true, false, true}, 4)

	tests := []struct {
		name string
		op   func(a, b *Array) (*Array, error)
		want []bool
	}{
		{"and", LogicalAnd, []bool{false, false, false, true}},
		{"or", LogicalOr, []bool{false, true, true, true}},
		{"xor", LogicalXor, []bool{false, true, true, false}},
		{"nand", LogicalNand, []bool{true, true, true, false}},
		{"nor", LogicalNor, []bool{true, false, false, false}},
		{"sub", LogicalSub, []bool{false, false, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(x1, x2)
			require.NoError(t, err)
			assert.Equal(t, Bool, got.DType())
			assert.Equal(t, tt.want, got.Bools())
		})
	}
}

func TestLogicalNot(t *testing.T) {
	got := LogicalNot(bools(t, []bool{true, false}, 2))
	assert.Equal(t, []bool{false, true}, got.Bools())

	// Numbers coerce through truthiness: nonzero is true.
	got = LogicalNot(ints(t, []int64{0, 1, -3}, 3))
	assert.Equal(t, []bool{true, false, false}, got.Bools())
}

func TestLogicalCoercion(t *testing.T) {
	t.Run("numbers coerce to truth values", func(t *testing.T) {
		x1 := ints(t, []int64{0, 2, 0, 5}, 4)
		x2 := floats(t, []float64{0, 0, 1.5, 1}, 4)

		got, err := LogicalAnd(x1, x2)
		require.NoError(t, err)
		assert.Equal(t, []bool{false, false, false, true}, got.Bools())
	})

	t.Run("and with itself is idempotent", func(t *testing.T) {
		x := bools(t, []bool{true, false, true}, 3)

		got, err := LogicalAnd(x, x)
		require.NoError(t, err)
		assert.Equal(t, x.Bools(), got.Bools())
	})

	t.Run("scalar broadcast", func(t *testing.T) {
		x := bools(t, []bool{true, false}, 2)

		got, err := LogicalOr(x, FromBool(true))
		require.NoError(t, err)
		assert.Equal(t, []bool{true, true}, got.Bools())
	})

	t.Run("shape mismatch rejected", func(t *testing.T) {
		_, err := LogicalAnd(bools(t, []bool{true}, 1), bools(t, []bool{true, false}, 2))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestBitwise(t *testing.T) {
	t.Run("integer operands", func(t *testing.T) {
		x1 := ints(t, []int64{0b1100, 0b1010}, 2)
		x2 := ints(t, []int64{0b1010, 0b0110}, 2)

		and, err := BitAnd(x1, x2)
		require.NoError(t, err)
		assert.Equal(t, []int64{0b1000, 0b0010}, and.Int64s())

		or, err := BitOr(x1, x2)
		require.NoError(t, err)
		assert.Equal(t, []int64{0b1110, 0b1110}, or.Int64s())

		xor, err := BitXor(x1, x2)
		require.NoError(t, err)
		assert.Equal(t, []int64{0b0110, 0b1100}, xor.Int64s())
	})

	t.Run("boolean operands keep boolean results", func(t *testing.T) {
		x1 := bools(t, []bool{true, true, false}, 3)
		x2 := bools(t, []bool{true, false, false}, 3)

		and, err := BitAnd(x1, x2)
		require.NoError(t, err)
		assert.Equal(t, Bool, and.DType())
		assert.Equal(t, []bool{true, false, false}, and.Bools())
	})

	t.Run("complement", func(t *testing.T) {
		not, err := BitNot(ints(t, []int64{0, -1, 5}, 3))
		require.NoError(t, err)
		assert.Equal(t, []int64{-1, 0, -6}, not.Int64s())

		bnot, err := BitNot(bools(t, []bool{true, false}, 2))
		require.NoError(t, err)
		assert.Equal(t, Bool, bnot.DType())
		assert.Equal(t, []bool{false, true}, bnot.Bools())
	})

	t.Run("float operands rejected", func(t *testing.T) {
		_, err := BitAnd(floats(t, []float64{1}, 1), ints(t, []int64{1}, 1))
		assert.ErrorIs(t, err, ErrInvalidDType)

		_, err = BitNot(FromFloat64(1))
		assert.ErrorIs(t, err, ErrInvalidDType)
	})
}
