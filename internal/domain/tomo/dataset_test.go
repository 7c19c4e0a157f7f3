package tomo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// stubBackend is a deterministic in-package test double. It records the
// arguments of the last call so transition tests can assert plumbing.
type stubBackend struct {
	failWith    error
	lastAir     int
	lastCenter  float64
	lastIter    int
	lastStart   float64
	lastEnd     float64
	foundCenter float64
}

func (s *stubBackend) Normalize(ctx context.Context, proj, white, dark *ndarray.Array) (*ndarray.Array, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return proj.CastTo(ndarray.Float64), nil
}

func (s *stubBackend) CorrectDrift(ctx context.Context, proj *ndarray.Array, air int) (*ndarray.Array, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.lastAir = air
	return proj.CastTo(ndarray.Float64), nil
}

func (s *stubBackend) PhaseRetrieval(ctx context.Context, proj *ndarray.Array, opts PhaseOptions) (*ndarray.Array, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return proj.CastTo(ndarray.Float64), nil
}

func (s *stubBackend) FindCenter(ctx context.Context, proj *ndarray.Array, theta []float64) (float64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.foundCenter, nil
}

func (s *stubBackend) DiagnoseCenter(ctx context.Context, proj *ndarray.Array, theta []float64, start, end float64) (*ndarray.Array, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.lastStart = start
	s.lastEnd = end
	trials := int(end-start) + 1
	out, err := ndarray.Zeros(ndarray.Float64, trials, 2, 2)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *stubBackend) reconstruct(proj *ndarray.Array, center float64, iterations int) (*ndarray.Array, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.lastCenter = center
	s.lastIter = iterations
	shape := proj.Shape()
	return ndarray.Zeros(ndarray.Float64, shape[1], shape[2], shape[2])
}

func (s *stubBackend) GridRec(ctx context.Context, proj *ndarray.Array, theta []float64, center float64) (*ndarray.Array, error) {
	return s.reconstruct(proj, center, 0)
}

func (s *stubBackend) SIRT(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	return s.reconstruct(proj, center, iterations)
}

func (s *stubBackend) ART(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	return s.reconstruct(proj, center, iterations)
}

func projArrays(t *testing.T) (proj, white, dark *ndarray.Array, theta []float64) {
	t.Helper()
	projData := make([]float64, 4*2*3)
	for i := range projData {
		projData[i] = float64(i + 1)
	}
	proj, err := ndarray.FromFloats(projData, 4, 2, 3)
	require.NoError(t, err)

	white, err = ndarray.FromFloats([]float64{9, 9, 9, 9, 9, 9}, 2, 3)
	require.NoError(t, err)
	dark, err = ndarray.FromFloats([]float64{1, 1, 1, 1, 1, 1}, 2, 3)
	require.NoError(t, err)

	theta = []float64{0, 0.5, 1.0, 1.5}
	return proj, white, dark, theta
}

func loadDataset(t *testing.T, b Backend) (*Manager, *Dataset) {
	t.Helper()
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)
	ds, err := m.Load(proj, white, dark, theta)
	require.NoError(t, err)
	return m, ds
}

func TestLoadValidation(t *testing.T) {
	b := &stubBackend{}
	m := NewManager(b)
	proj, white, dark, theta := projArrays(t)

	t.Run("accepts valid arrays", func(t *testing.T) {
		ds, err := m.Load(proj, white, dark, theta)
		require.NoError(t, err)
		assert.Equal(t, StateLoaded, ds.State())
		assert.NotEmpty(t, ds.ID())
		assert.NotEmpty(t, ds.Fingerprint())
	})

	t.Run("projections must be rank 3", func(t *testing.T) {
		flat, err := ndarray.FromFloats([]float64{1, 2, 3, 4}, 2, 2)
		require.NoError(t, err)
		_, err = m.Load(flat, white, dark, theta)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("theta length must match projection count", func(t *testing.T) {
		_, err := m.Load(proj, white, dark, []float64{0, 1})
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("reference frames must match rows and cols", func(t *testing.T) {
		wrong, err := ndarray.FromFloats([]float64{1, 2, 3, 4}, 2, 2)
		require.NoError(t, err)
		_, err = m.Load(proj, wrong, dark, theta)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("missing reference frame rejected", func(t *testing.T) {
		_, err := m.Load(proj, nil, dark, theta)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("rank 3 reference stack accepted", func(t *testing.T) {
		stack, err := ndarray.Zeros(ndarray.Float64, 5, 2, 3)
		require.NoError(t, err)
		_, err = m.Load(proj, stack, dark, theta)
		assert.NoError(t, err)
	})

	t.Run("nil backend rejected", func(t *testing.T) {
		empty := NewManager(nil)
		_, err := empty.Load(proj, white, dark, theta)
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	})
}

func TestPipelineHappyPath(t *testing.T) {
	b := &stubBackend{}
	m, ds := loadDataset(t, b)
	ctx := context.Background()

	require.NoError(t, ds.Normalize(ctx, m.Backend()))
	assert.Equal(t, StateNormalized, ds.State())

	require.NoError(t, ds.CorrectDrift(ctx, m.Backend(), 5))
	assert.Equal(t, StateDriftCorrected, ds.State())
	assert.Equal(t, 5, b.lastAir)

	require.NoError(t, ds.GridRec(ctx, m.Backend()))
	assert.Equal(t, StateReconstructed, ds.State())

	// Data now exposes the reconstructed volume, not the projections.
	assert.Equal(t, []int{2, 3, 3}, ds.Data().Shape())
}

func TestPipelineSkipsDriftCorrection(t *testing.T) {
	b := &stubBackend{}
	m, ds := loadDataset(t, b)
	ctx := context.Background()

	require.NoError(t, ds.Normalize(ctx, m.Backend()))
	require.NoError(t, ds.SIRT(ctx, m.Backend(), 10))
	assert.Equal(t, StateReconstructed, ds.State())
	assert.Equal(t, 10, b.lastIter)
}

func TestPipelineTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("drift correction before normalize", func(t *testing.T) {
		m, ds := loadDataset(t, &stubBackend{})
		err := ds.CorrectDrift(ctx, m.Backend(), 1)
		require.ErrorIs(t, err, ErrBadTransition)
		assert.Equal(t, StateLoaded, ds.State())
	})

	t.Run("normalize twice", func(t *testing.T) {
		m, ds := loadDataset(t, &stubBackend{})
		require.NoError(t, ds.Normalize(ctx, m.Backend()))
		assert.ErrorIs(t, ds.Normalize(ctx, m.Backend()), ErrBadTransition)
	})

	t.Run("reconstruct before normalize", func(t *testing.T) {
		m, ds := loadDataset(t, &stubBackend{})
		assert.ErrorIs(t, ds.GridRec(ctx, m.Backend()), ErrBadTransition)
	})

	t.Run("nothing follows reconstruction", func(t *testing.T) {
		m, ds := loadDataset(t, &stubBackend{})
		require.NoError(t, ds.Normalize(ctx, m.Backend()))
		require.NoError(t, ds.GridRec(ctx, m.Backend()))

		assert.ErrorIs(t, ds.Normalize(ctx, m.Backend()), ErrBadTransition)
		assert.ErrorIs(t, ds.CorrectDrift(ctx, m.Backend(), 1), ErrBadTransition)
		assert.ErrorIs(t, ds.SIRT(ctx, m.Backend(), 5), ErrBadTransition)
		assert.ErrorIs(t, ds.PhaseRetrieval(ctx, m.Backend(), PhaseOptions{}), ErrBadTransition)
	})

	t.Run("error names the stage and state", func(t *testing.T) {
		m, ds := loadDataset(t, &stubBackend{})
		err := ds.SIRT(ctx, m.Backend(), 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sirt")
		assert.Contains(t, err.Error(), "loaded")
	})
}

func TestBackendErrorLeavesStateUnchanged(t *testing.T) {
	backendErr := errors.New("backend exploded")
	b := &stubBackend{failWith: backendErr}
	m, ds := loadDataset(t, b)

	err := ds.Normalize(context.Background(), m.Backend())
	require.ErrorIs(t, err, backendErr)
	assert.Equal(t, StateLoaded, ds.State())
}

func TestNonMutatingVariants(t *testing.T) {
	b := &stubBackend{}
	m, ds := loadDataset(t, b)
	ctx := context.Background()

	before := ds.Data()
	out, err := ds.NormalizedCopy(ctx, m.Backend())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, StateLoaded, ds.State())
	assert.True(t, ds.Data().Equal(before))

	// The mutating form still runs afterwards.
	require.NoError(t, ds.Normalize(ctx, m.Backend()))

	_, err = ds.DriftCorrectedCopy(ctx, m.Backend(), 3)
	require.NoError(t, err)
	assert.Equal(t, StateNormalized, ds.State())
}

func TestCenterHandling(t *testing.T) {
	ctx := context.Background()

	t.Run("find center stores the result", func(t *testing.T) {
		b := &stubBackend{foundCenter: 1.25}
		m, ds := loadDataset(t, b)
		require.NoError(t, ds.Normalize(ctx, m.Backend()))

		center, err := ds.FindCenter(ctx, m.Backend())
		require.NoError(t, err)
		assert.Equal(t, 1.25, center)

		stored, ok := ds.Center()
		assert.True(t, ok)
		assert.Equal(t, 1.25, stored)
		assert.Equal(t, StateNormalized, ds.State())

		// Reconstruction uses the stored center.
		require.NoError(t, ds.GridRec(ctx, m.Backend()))
		assert.Equal(t, 1.25, b.lastCenter)
	})

	t.Run("reconstruction defaults to the midpoint column", func(t *testing.T) {
		b := &stubBackend{}
		m, ds := loadDataset(t, b)
		require.NoError(t, ds.Normalize(ctx, m.Backend()))
		require.NoError(t, ds.GridRec(ctx, m.Backend()))
		assert.Equal(t, 1.5, b.lastCenter) // 3 cols / 2
	})

	t.Run("diagnose center leaves state alone", func(t *testing.T) {
		b := &stubBackend{}
		m, ds := loadDataset(t, b)
		require.NoError(t, ds.Normalize(ctx, m.Backend()))

		out, err := ds.DiagnoseCenter(ctx, m.Backend(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 1.0, b.lastStart)
		assert.Equal(t, 3.0, b.lastEnd)
		assert.Equal(t, []int{3, 2, 2}, out.Shape())
		assert.Equal(t, StateNormalized, ds.State())
	})

	t.Run("inverted center range rejected", func(t *testing.T) {
		b := &stubBackend{}
		m, ds := loadDataset(t, b)
		require.NoError(t, ds.Normalize(ctx, m.Backend()))

		_, err := ds.DiagnoseCenter(ctx, m.Backend(), 5, 2)
		assert.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("find center requires a normalized dataset", func(t *testing.T) {
		b := &stubBackend{}
		m, ds := loadDataset(t, b)
		_, err := ds.FindCenter(ctx, m.Backend())
		assert.ErrorIs(t, err, ErrBadTransition)
	})
}

func TestIterationValidation(t *testing.T) {
	b := &stubBackend{}
	m, ds := loadDataset(t, b)
	ctx := context.Background()
	require.NoError(t, ds.Normalize(ctx, m.Backend()))

	assert.ErrorIs(t, ds.SIRT(ctx, m.Backend(), 0), ErrBadInput)
	assert.ErrorIs(t, ds.ART(ctx, m.Backend(), -1), ErrBadInput)
}

func TestConcurrentStageAccess(t *testing.T) {
	b := &stubBackend{}
	ctx := context.Background()

	t.Run("exactly one concurrent normalize wins", func(t *testing.T) {
		_, ds := loadDataset(t, b)

		const callers = 8
		errs := make(chan error, callers)
		var release sync.WaitGroup
		release.Add(1)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release.Wait()
				errs <- ds.Normalize(ctx, b)
			}()
		}
		release.Done()
		wg.Wait()
		close(errs)

		var won, rejected int
		for err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrBadTransition):
				rejected++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, callers-1, rejected)
		assert.Equal(t, StateNormalized, ds.State())
	})

	// Run with -race: readers must observe stage writes only through the
	// handle's lock.
	t.Run("readers are safe while stages run", func(t *testing.T) {
		_, ds := loadDataset(t, b)

		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				ds.Snapshot()
				ds.State()
				ds.Data()
				ds.Theta()
				ds.Center()
			}
		}()

		require.NoError(t, ds.Normalize(ctx, b))
		require.NoError(t, ds.CorrectDrift(ctx, b, 3))
		require.NoError(t, ds.GridRec(ctx, b))
		close(done)
		wg.Wait()

		assert.Equal(t, StateReconstructed, ds.State())
	})
}
