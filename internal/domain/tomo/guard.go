package tomo

import (
	"context"
	"errors"
	"time"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/resilience"
)

// GuardBackend wraps a backend with a circuit breaker. Once the breaker
// opens, stage calls fail fast with ErrBackendUnavailable instead of
// queueing against a dead reconstruction service. The breaker trips after
// three consecutive failures and probes again after thirty seconds.
func GuardBackend(inner Backend, name string) Backend {
	return &guardedBackend{
		inner: inner,
		breaker: resilience.NewBreaker(name,
			resilience.TripAfter(3),
			resilience.Cooldown(30*time.Second),
		),
	}
}

type guardedBackend struct {
	inner   Backend
	breaker *resilience.Breaker
}

// guard funnels a stage through the breaker, mapping breaker rejections to
// ErrBackendUnavailable. Errors from the backend itself pass through.
func (g *guardedBackend) guard(call func() error) error {
	err := g.breaker.Do(call)
	if errors.Is(err, resilience.ErrOpen) || errors.Is(err, resilience.ErrProbeLimit) {
		return ErrBackendUnavailable
	}
	return err
}

func (g *guardedBackend) Normalize(ctx context.Context, proj, white, dark *ndarray.Array) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.Normalize(ctx, proj, white, dark)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) CorrectDrift(ctx context.Context, proj *ndarray.Array, air int) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.CorrectDrift(ctx, proj, air)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) PhaseRetrieval(ctx context.Context, proj *ndarray.Array, opts PhaseOptions) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.PhaseRetrieval(ctx, proj, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) FindCenter(ctx context.Context, proj *ndarray.Array, theta []float64) (float64, error) {
	var center float64
	err := g.guard(func() error {
		var err error
		center, err = g.inner.FindCenter(ctx, proj, theta)
		return err
	})
	if err != nil {
		return 0, err
	}
	return center, nil
}

func (g *guardedBackend) DiagnoseCenter(ctx context.Context, proj *ndarray.Array, theta []float64, centerStart, centerEnd float64) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.DiagnoseCenter(ctx, proj, theta, centerStart, centerEnd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) GridRec(ctx context.Context, proj *ndarray.Array, theta []float64, center float64) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.GridRec(ctx, proj, theta, center)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) SIRT(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.SIRT(ctx, proj, theta, center, iterations)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *guardedBackend) ART(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	var out *ndarray.Array
	err := g.guard(func() error {
		var err error
		out, err = g.inner.ART(ctx, proj, theta, center, iterations)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
