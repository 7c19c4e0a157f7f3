package fitting

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of one fit: the fitted parameter values, the
// best-fit curve over the input x, and goodness-of-fit statistics.
type Result struct {
	Values     map[string]float64 `json:"values"`
	Curve      []float64          `json:"curve"`
	ChiSquare  float64            `json:"chi_square"`
	ReducedChi float64            `json:"reduced_chi"`
	RSquared   float64            `json:"r_squared"`
}

func buildResult(values map[string]float64, curve, y []float64, nVarying int) *Result {
	resid := make([]float64, len(y))
	floats.SubTo(resid, y, curve)
	chi2 := floats.Dot(resid, resid)

	dof := len(y) - nVarying
	if dof < 1 {
		dof = 1
	}

	return &Result{
		Values:     values,
		Curve:      curve,
		ChiSquare:  chi2,
		ReducedChi: chi2 / float64(dof),
		RSquared:   stat.RSquaredFrom(curve, y, nil),
	}
}
