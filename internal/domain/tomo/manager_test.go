package tomo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLoadAndGet(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)

	ds, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)

	got, ok := m.Get(ds.ID())
	require.True(t, ok)
	assert.Same(t, ds, got, "Get must hand back the managed instance")

	// Stage transitions through one handle are visible through the other.
	require.NoError(t, got.Normalize(context.Background(), m.Backend()))
	assert.Equal(t, StateNormalized, ds.State())

	_, ok = m.Get("no-such-dataset")
	assert.False(t, ok)
}

func TestManagerFingerprint(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)

	first, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)
	second, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint(),
		"same geometry must fingerprint identically")
}

func TestManagerList(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)

	assert.Empty(t, m.List())

	var ids []string
	for i := 0; i < 3; i++ {
		ds, err := m.Load(proj, white, dark, theta)
		require.NoError(t, err)
		ids = append(ids, ds.ID())
	}

	infos := m.List()
	require.Len(t, infos, 3)
	for i, info := range infos {
		assert.Equal(t, ids[i], info.ID, "list keeps load order")
		assert.Equal(t, StateLoaded, info.State)
		assert.Equal(t, []int{4, 2, 3}, info.Shape)
		assert.Equal(t, 4, info.Angles)
		assert.Nil(t, info.Center)
	}
}

func TestManagerRelease(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)

	ds, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)

	assert.True(t, m.Release(ds.ID()))
	_, ok := m.Get(ds.ID())
	assert.False(t, ok)
	assert.False(t, m.Release(ds.ID()), "second release is a no-op")
}

func TestManagerStats(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Load(proj, white, dark, theta)
		require.NoError(t, err)
	}
	ds, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)
	require.NoError(t, ds.Normalize(ctx, m.Backend()))
	require.NoError(t, ds.GridRec(ctx, m.Backend()))

	stats := m.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.ByState[StateLoaded])
	assert.Equal(t, 1, stats.ByState[StateReconstructed])
}
