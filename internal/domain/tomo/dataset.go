package tomo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// State names a dataset's position in the pipeline.
type State string

const (
	StateLoaded         State = "loaded"
	StateNormalized     State = "normalized"
	StateDriftCorrected State = "drift_corrected"
	StateReconstructed  State = "reconstructed"
)

// Dataset is a stateful handle carrying projection data through the
// reconstruction pipeline. Stages must run in order: normalize from Loaded,
// drift correction from Normalized, reconstruction from Normalized or
// DriftCorrected. Out-of-order calls fail fast with ErrBadTransition and
// leave the dataset untouched.
//
// Handles are shared by concurrent requests. The mutex is held across each
// stage call, so two stages on the same dataset serialize and the
// state check and the write it guards are one atomic step.
type Dataset struct {
	id          string
	fingerprint string

	mu    sync.Mutex
	state State

	proj  *ndarray.Array // current working projections
	white *ndarray.Array
	dark  *ndarray.Array
	theta []float64

	center    float64
	hasCenter bool
	recon     *ndarray.Array

	createdAt time.Time
	updatedAt time.Time
}

// Info is a read-only snapshot of a dataset for listings.
type Info struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	State       State     `json:"state"`
	Shape       []int     `json:"shape"`
	Angles      int       `json:"angles"`
	Center      *float64  `json:"center,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newDataset(id, fingerprint string, proj, white, dark *ndarray.Array, theta []float64) (*Dataset, error) {
	if proj == nil || proj.Rank() != 3 {
		return nil, fmt.Errorf("%w: projections must be rank 3 (angles x rows x cols)", ErrBadInput)
	}
	shape := proj.Shape()
	if len(theta) != shape[0] {
		return nil, fmt.Errorf("%w: %d angles for %d projections", ErrBadInput, len(theta), shape[0])
	}
	if err := checkReference("white", white, shape); err != nil {
		return nil, err
	}
	if err := checkReference("dark", dark, shape); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Dataset{
		id:          id,
		fingerprint: fingerprint,
		state:       StateLoaded,
		proj:        proj,
		white:       white,
		dark:        dark,
		theta:       append([]float64(nil), theta...),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// checkReference validates a white/dark frame against the projection shape:
// rank 2 (rows x cols) or a rank-3 stack with matching trailing dimensions.
func checkReference(name string, ref *ndarray.Array, projShape []int) error {
	if ref == nil {
		return fmt.Errorf("%w: %s reference frame is required", ErrBadInput, name)
	}
	s := ref.Shape()
	switch ref.Rank() {
	case 2:
		if s[0] != projShape[1] || s[1] != projShape[2] {
			return fmt.Errorf("%w: %s frame is %v, projections are rows x cols %v", ErrBadInput, name, s, projShape[1:])
		}
	case 3:
		if s[1] != projShape[1] || s[2] != projShape[2] {
			return fmt.Errorf("%w: %s stack is %v, projections are rows x cols %v", ErrBadInput, name, s, projShape[1:])
		}
	default:
		return fmt.Errorf("%w: %s frame must be rank 2 or 3, got rank %d", ErrBadInput, name, ref.Rank())
	}
	return nil
}

// ID returns the dataset handle
func (d *Dataset) ID() string { return d.id }

// Fingerprint returns the deterministic content fingerprint
func (d *Dataset) Fingerprint() string { return d.fingerprint }

// State returns the current pipeline state
func (d *Dataset) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Theta returns a copy of the projection angles
func (d *Dataset) Theta() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]float64(nil), d.theta...)
}

// Center returns the stored rotation center, if one has been found
func (d *Dataset) Center() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.center, d.hasCenter
}

// Data returns the dataset's current array: working projections until a
// reconstruction runs, the reconstructed volume afterwards. Arrays are
// never mutated in place, so the returned pointer is safe to read after
// the lock is released.
func (d *Dataset) Data() *ndarray.Array {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data()
}

func (d *Dataset) data() *ndarray.Array {
	if d.state == StateReconstructed {
		return d.recon
	}
	return d.proj
}

// Snapshot returns a read-only view of the dataset
func (d *Dataset) Snapshot() Info {
	d.mu.Lock()
	defer d.mu.Unlock()

	info := Info{
		ID:          d.id,
		Fingerprint: d.fingerprint,
		State:       d.state,
		Shape:       d.data().Shape(),
		Angles:      len(d.theta),
		CreatedAt:   d.createdAt,
		UpdatedAt:   d.updatedAt,
	}
	if d.hasCenter {
		c := d.center
		info.Center = &c
	}
	return info
}

// requireState checks stage ordering. Callers hold d.mu.
func (d *Dataset) requireState(stage string, allowed ...State) error {
	for _, s := range allowed {
		if d.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s requires state %v, dataset %s is %q", ErrBadTransition, stage, allowed, d.id, d.state)
}

// defaultCenter is the midpoint column, used when no center has been found.
// Callers hold d.mu.
func (d *Dataset) defaultCenter() float64 {
	if d.hasCenter {
		return d.center
	}
	return float64(d.proj.Shape()[2]) / 2
}

// Normalize scales the projections by the reference frames and advances
// Loaded -> Normalized.
func (d *Dataset) Normalize(ctx context.Context, b Backend) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("normalize", StateLoaded); err != nil {
		return err
	}
	out, err := b.Normalize(ctx, d.proj, d.white, d.dark)
	if err != nil {
		return err
	}
	d.proj = out
	d.state = StateNormalized
	d.updatedAt = time.Now()
	return nil
}

// NormalizedCopy returns the normalization output without touching the
// dataset's projections or state.
func (d *Dataset) NormalizedCopy(ctx context.Context, b Backend) (*ndarray.Array, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("normalize", StateLoaded); err != nil {
		return nil, err
	}
	return b.Normalize(ctx, d.proj, d.white, d.dark)
}

// CorrectDrift compensates intensity drift and advances
// Normalized -> DriftCorrected.
func (d *Dataset) CorrectDrift(ctx context.Context, b Backend, air int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("correct_drift", StateNormalized); err != nil {
		return err
	}
	out, err := b.CorrectDrift(ctx, d.proj, air)
	if err != nil {
		return err
	}
	d.proj = out
	d.state = StateDriftCorrected
	d.updatedAt = time.Now()
	return nil
}

// DriftCorrectedCopy returns the drift-correction output without advancing
// the dataset.
func (d *Dataset) DriftCorrectedCopy(ctx context.Context, b Backend, air int) (*ndarray.Array, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("correct_drift", StateNormalized); err != nil {
		return nil, err
	}
	return b.CorrectDrift(ctx, d.proj, air)
}

// PhaseRetrieval rewrites the working projections in place of the absorption
// data. It requires a normalized dataset and does not change state.
func (d *Dataset) PhaseRetrieval(ctx context.Context, b Backend, opts PhaseOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("phase_retrieval", StateNormalized, StateDriftCorrected); err != nil {
		return err
	}
	out, err := b.PhaseRetrieval(ctx, d.proj, opts)
	if err != nil {
		return err
	}
	d.proj = out
	d.updatedAt = time.Now()
	return nil
}

// FindCenter estimates and stores the rotation center. State is unchanged.
func (d *Dataset) FindCenter(ctx context.Context, b Backend) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("find_center", StateNormalized, StateDriftCorrected); err != nil {
		return 0, err
	}
	center, err := b.FindCenter(ctx, d.proj, d.theta)
	if err != nil {
		return 0, err
	}
	d.center = center
	d.hasCenter = true
	d.updatedAt = time.Now()
	return center, nil
}

// DiagnoseCenter returns trial reconstructions for candidate centers in
// [start, end] without mutating the dataset.
func (d *Dataset) DiagnoseCenter(ctx context.Context, b Backend, start, end float64) (*ndarray.Array, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("diagnose_center", StateNormalized, StateDriftCorrected); err != nil {
		return nil, err
	}
	if !(start < end) {
		return nil, fmt.Errorf("%w: center range must satisfy start < end (got %g, %g)", ErrBadInput, start, end)
	}
	return b.DiagnoseCenter(ctx, d.proj, d.theta, start, end)
}

// GridRec reconstructs with the gridrec algorithm and advances to
// Reconstructed.
func (d *Dataset) GridRec(ctx context.Context, b Backend) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("gridrec", StateNormalized, StateDriftCorrected); err != nil {
		return err
	}
	out, err := b.GridRec(ctx, d.proj, d.theta, d.defaultCenter())
	if err != nil {
		return err
	}
	d.recon = out
	d.state = StateReconstructed
	d.updatedAt = time.Now()
	return nil
}

// SIRT reconstructs iteratively with SIRT and advances to Reconstructed.
func (d *Dataset) SIRT(ctx context.Context, b Backend, iterations int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("sirt", StateNormalized, StateDriftCorrected); err != nil {
		return err
	}
	if iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrBadInput, iterations)
	}
	out, err := b.SIRT(ctx, d.proj, d.theta, d.defaultCenter(), iterations)
	if err != nil {
		return err
	}
	d.recon = out
	d.state = StateReconstructed
	d.updatedAt = time.Now()
	return nil
}

// ART reconstructs iteratively with ART and advances to Reconstructed.
func (d *Dataset) ART(ctx context.Context, b Backend, iterations int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.requireState("art", StateNormalized, StateDriftCorrected); err != nil {
		return err
	}
	if iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrBadInput, iterations)
	}
	out, err := b.ART(ctx, d.proj, d.theta, d.defaultCenter(), iterations)
	if err != nil {
		return err
	}
	d.recon = out
	d.state = StateReconstructed
	d.updatedAt = time.Now()
	return nil
}
