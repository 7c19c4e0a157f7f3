package fitting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"free", Free},
		{"fixed", Fixed},
		{"bounded", Bounded},
		{"", Free},
		{" Fixed ", Fixed},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	t.Run("unknown policy rejected", func(t *testing.T) {
		_, err := ParsePolicy("wrong")
		require.ErrorIs(t, err, ErrBadPolicy)
		assert.Contains(t, err.Error(), "wrong")
	})
}

func TestParamSet(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "c", Value: 3}))
		require.NoError(t, s.Add(Param{Name: "a", Value: 1}))
		require.NoError(t, s.Add(Param{Name: "b", Value: 2}))

		assert.Equal(t, []string{"c", "a", "b"}, s.Names())
		assert.Equal(t, 3, s.Len())
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "a"}))
		assert.ErrorIs(t, s.Add(Param{Name: "a"}), ErrBadInput)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		s := NewParamSet()
		assert.ErrorIs(t, s.Add(Param{}), ErrBadInput)
	})

	t.Run("fix and bound update policies", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "a", Value: 1}))
		require.NoError(t, s.Add(Param{Name: "b", Value: 2}))

		require.NoError(t, s.Fix("a"))
		require.NoError(t, s.Bound("b", 0, 5))

		a, _ := s.Get("a")
		assert.Equal(t, Fixed, a.Policy)

		b, _ := s.Get("b")
		assert.Equal(t, Bounded, b.Policy)
		assert.Equal(t, 0.0, b.Min)
		assert.Equal(t, 5.0, b.Max)
	})

	t.Run("inverted bounds rejected", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "a"}))
		assert.ErrorIs(t, s.Bound("a", 5, 5), ErrBadInput)
		assert.ErrorIs(t, s.Bound("a", 5, 1), ErrBadInput)
	})

	t.Run("unknown names rejected", func(t *testing.T) {
		s := NewParamSet()
		assert.ErrorIs(t, s.Fix("nope"), ErrBadInput)
		assert.ErrorIs(t, s.Bound("nope", 0, 1), ErrBadInput)
		assert.ErrorIs(t, s.SetValue("nope", 1), ErrBadInput)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "a", Value: 1}))

		p, ok := s.Get("a")
		require.True(t, ok)
		p.Value = 99

		again, _ := s.Get("a")
		assert.Equal(t, 1.0, again.Value)
	})

	t.Run("values snapshot", func(t *testing.T) {
		s := NewParamSet()
		require.NoError(t, s.Add(Param{Name: "a", Value: 1}))
		require.NoError(t, s.Add(Param{Name: "b", Value: 2}))

		assert.Equal(t, map[string]float64{"a": 1, "b": 2}, s.Values())
	})
}
