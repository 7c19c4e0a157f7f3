package fitting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	// DefaultMaxIterations caps the optimizer's major iterations.
	DefaultMaxIterations = 2000
	// DefaultTolerance is the absolute function-value convergence threshold.
	DefaultTolerance = 1e-10
)

// Config tunes the fit engine
type Config struct {
	MaxIterations int
	Tolerance     float64
}

// Engine minimizes the sum of squared residuals of a model against sample
// data. The numerical minimizer is gonum's Nelder-Mead; this package owns
// the parameter bookkeeping and objective assembly around it.
type Engine struct {
	cfg Config
}

// NewEngine creates a fit engine, filling zero config fields with defaults
func NewEngine(cfg Config) *Engine {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	return &Engine{cfg: cfg}
}

// Sample is one (x, y) dataset for FitList
type Sample struct {
	X []float64
	Y []float64
}

// transform maps one varying parameter between the optimizer's unconstrained
// internal coordinate and its external value. Bounded parameters use the
// sine transform: external = min + (max-min)/2 * (sin(internal)+1), which
// keeps every internal value inside the bounds.
type transform struct {
	name     string
	bounded  bool
	min, max float64
}

func (t transform) internal(value float64) float64 {
	if !t.bounded {
		return value
	}
	arg := 2*(value-t.min)/(t.max-t.min) - 1
	if arg < -1 {
		arg = -1
	} else if arg > 1 {
		arg = 1
	}
	return math.Asin(arg)
}

func (t transform) external(theta float64) float64 {
	if !t.bounded {
		return theta
	}
	return t.min + (t.max-t.min)/2*(math.Sin(theta)+1)
}

// Fit minimizes the squared residuals of model against (x, y). Fixed
// parameters never move; bounded parameters stay inside their bounds. The
// returned Result carries the fitted values, the best-fit curve over x, and
// goodness-of-fit statistics.
func (e *Engine) Fit(model Model, x, y []float64) (*Result, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no sample points", ErrBadInput)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x has %d points but y has %d", ErrBadInput, len(x), len(y))
	}

	ps := model.Params()
	fixed := make(map[string]float64)
	var varying []transform
	var init []float64

	for _, name := range ps.Names() {
		p, _ := ps.Get(name)
		switch p.Policy {
		case Fixed:
			fixed[name] = p.Value
		case Bounded:
			if !(p.Min < p.Max) {
				return nil, fmt.Errorf("%w: bounds for %q must satisfy min < max (got %g, %g)", ErrBadInput, name, p.Min, p.Max)
			}
			tr := transform{name: name, bounded: true, min: p.Min, max: p.Max}
			varying = append(varying, tr)
			init = append(init, tr.internal(p.Value))
		default:
			varying = append(varying, transform{name: name})
			init = append(init, p.Value)
		}
	}

	if len(varying) == 0 {
		return nil, fmt.Errorf("%w: model %q has no free parameters", ErrBadInput, model.Name())
	}

	external := func(theta []float64) map[string]float64 {
		values := make(map[string]float64, len(fixed)+len(varying))
		for name, v := range fixed {
			values[name] = v
		}
		for i, tr := range varying {
			values[tr.name] = tr.external(theta[i])
		}
		return values
	}

	// Surface evaluation problems before optimizing rather than letting the
	// solver wander an objective that never returns a finite value.
	if _, err := model.Eval(external(init), x); err != nil {
		return nil, fmt.Errorf("model evaluation at initial parameters: %w", err)
	}

	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			curve, err := model.Eval(external(theta), x)
			if err != nil {
				return math.Inf(1)
			}
			var sum float64
			for i, yi := range y {
				d := yi - curve[i]
				sum += d * d
			}
			return sum
		},
	}

	settings := &optimize.Settings{
		MajorIterations: e.cfg.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   e.cfg.Tolerance,
			Iterations: 100,
		},
	}

	solution, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("minimize %q: %w", model.Name(), err)
	}

	best := external(solution.X)
	curve, err := model.Eval(best, x)
	if err != nil {
		return nil, fmt.Errorf("model evaluation at fitted parameters: %w", err)
	}

	return buildResult(best, curve, y, len(varying)), nil
}

// FitList fits the same model to each dataset independently, returning one
// result per dataset in order. Any failing dataset fails the whole call; no
// partial result lists are returned.
func (e *Engine) FitList(model Model, samples []Sample) ([]*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no datasets", ErrBadInput)
	}
	results := make([]*Result, len(samples))
	for i, s := range samples {
		r, err := e.Fit(model, s.X, s.Y)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		results[i] = r
	}
	return results, nil
}
