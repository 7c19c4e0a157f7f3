package tomo

import (
	"context"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// PhaseOptions parameterize phase retrieval.
type PhaseOptions struct {
	PixelSize float64 `json:"pixel_size"`
	Dist      float64 `json:"dist"`
	Energy    float64 `json:"energy"`
	Alpha     float64 `json:"alpha"`
}

// Backend is the external reconstruction collaborator. Every numerical stage
// lives behind this interface; the repo ships no implementation beyond test
// doubles. Inputs are never mutated; each call returns a fresh array.
//
// Projections are rank 3 (angles x rows x cols); reference frames are rank 2
// or a rank-3 stack; theta holds one angle per projection in radians.
type Backend interface {
	// Normalize scales projections by the white and dark reference frames.
	Normalize(ctx context.Context, proj, white, dark *ndarray.Array) (*ndarray.Array, error)

	// CorrectDrift compensates intensity drift using air columns at each
	// projection's edges.
	CorrectDrift(ctx context.Context, proj *ndarray.Array, air int) (*ndarray.Array, error)

	// PhaseRetrieval converts phase contrast to absorption contrast.
	PhaseRetrieval(ctx context.Context, proj *ndarray.Array, opts PhaseOptions) (*ndarray.Array, error)

	// FindCenter estimates the rotation center column.
	FindCenter(ctx context.Context, proj *ndarray.Array, theta []float64) (float64, error)

	// DiagnoseCenter reconstructs one trial slice per candidate center in
	// [centerStart, centerEnd] and returns the stack.
	DiagnoseCenter(ctx context.Context, proj *ndarray.Array, theta []float64, centerStart, centerEnd float64) (*ndarray.Array, error)

	// GridRec runs the gridrec direct Fourier reconstruction.
	GridRec(ctx context.Context, proj *ndarray.Array, theta []float64, center float64) (*ndarray.Array, error)

	// SIRT runs iterative SIRT reconstruction.
	SIRT(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error)

	// ART runs iterative ART reconstruction.
	ART(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error)
}
