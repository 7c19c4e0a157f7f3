package fitting

import (
	"fmt"
	"math"

	"github.com/GridlineHQ/gridline/backend/internal/domain/expr"
	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

func mustParams(params ...Param) *ParamSet {
	s := NewParamSet()
	for _, p := range params {
		if err := s.Add(p); err != nil {
			panic(err) // builder parameter names are distinct
		}
	}
	return s
}

// Gaussian builds a normalized Gaussian peak:
// area/(sigma*sqrt(2*pi)) * exp(-(x-center)^2 / (2*sigma^2)).
// Parameters are named prefix+area, prefix+center, prefix+sigma.
func Gaussian(prefix string, area, center, sigma float64) Model {
	return &funcModel{
		name: "gaussian",
		params: mustParams(
			Param{Name: prefix + "area", Value: area},
			Param{Name: prefix + "center", Value: center},
			Param{Name: prefix + "sigma", Value: sigma},
		),
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			a := values[prefix+"area"]
			c := values[prefix+"center"]
			s := values[prefix+"sigma"]
			norm := a / (s * math.Sqrt(2*math.Pi))
			out := make([]float64, len(x))
			for i, xi := range x {
				d := xi - c
				out[i] = norm * math.Exp(-d*d/(2*s*s))
			}
			return out, nil
		},
	}
}

// Lorentzian builds a normalized Lorentzian peak:
// (area / (1+((x-center)/sigma)^2)) / (pi*sigma).
func Lorentzian(prefix string, area, center, sigma float64) Model {
	return &funcModel{
		name: "lorentzian",
		params: mustParams(
			Param{Name: prefix + "area", Value: area},
			Param{Name: prefix + "center", Value: center},
			Param{Name: prefix + "sigma", Value: sigma},
		),
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			a := values[prefix+"area"]
			c := values[prefix+"center"]
			s := values[prefix+"sigma"]
			out := make([]float64, len(x))
			for i, xi := range x {
				u := (xi - c) / s
				out[i] = (a / (1 + u*u)) / (math.Pi * s)
			}
			return out, nil
		},
	}
}

// Lorentzian2 builds a squared-denominator Lorentzian:
// (area / (1+((x-center)/sigma)^2)^2) / (pi*sigma).
func Lorentzian2(prefix string, area, center, sigma float64) Model {
	return &funcModel{
		name: "lorentzian2",
		params: mustParams(
			Param{Name: prefix + "area", Value: area},
			Param{Name: prefix + "center", Value: center},
			Param{Name: prefix + "sigma", Value: sigma},
		),
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			a := values[prefix+"area"]
			c := values[prefix+"center"]
			s := values[prefix+"sigma"]
			out := make([]float64, len(x))
			for i, xi := range x {
				u := (xi - c) / s
				den := 1 + u*u
				out[i] = (a / (den * den)) / (math.Pi * s)
			}
			return out, nil
		},
	}
}

// Quadratic builds a*x^2 + b*x + c with parameters prefix+a, prefix+b,
// prefix+c.
func Quadratic(prefix string, a, b, c float64) Model {
	return &funcModel{
		name: "quadratic",
		params: mustParams(
			Param{Name: prefix + "a", Value: a},
			Param{Name: prefix + "b", Value: b},
			Param{Name: prefix + "c", Value: c},
		),
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			pa := values[prefix+"a"]
			pb := values[prefix+"b"]
			pc := values[prefix+"c"]
			out := make([]float64, len(x))
			for i, xi := range x {
				out[i] = pa*xi*xi + pb*xi + pc
			}
			return out, nil
		},
	}
}

// Linear builds slope*x + intercept with parameters prefix+slope,
// prefix+intercept.
func Linear(prefix string, slope, intercept float64) Model {
	return &funcModel{
		name: "linear",
		params: mustParams(
			Param{Name: prefix + "slope", Value: slope},
			Param{Name: prefix + "intercept", Value: intercept},
		),
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			m := values[prefix+"slope"]
			b := values[prefix+"intercept"]
			out := make([]float64, len(x))
			for i, xi := range x {
				out[i] = m*xi + b
			}
			return out, nil
		},
	}
}

// ExpressionModel builds a model from a restricted infix expression. The
// symbol A is the independent variable x; every other referenced symbol is a
// fit parameter and needs an initial value. The expression grammar has no
// function calls, so forms like exp(-B*A) are syntax errors.
func ExpressionModel(expression string, initial map[string]float64) (Model, error) {
	free, err := expr.FreeSymbols(expression)
	if err != nil {
		return nil, err
	}

	params := NewParamSet()
	referenced := make(map[string]bool, len(free))
	for _, name := range free {
		if name == "A" {
			continue
		}
		if len(name) != 1 || name[0] < 'B' || name[0] > 'H' {
			return nil, fmt.Errorf("%w: expression symbol %q is outside A..H", ErrBadInput, name)
		}
		value, ok := initial[name]
		if !ok {
			return nil, fmt.Errorf("%w: no initial value for expression parameter %q", ErrBadInput, name)
		}
		referenced[name] = true
		if err := params.Add(Param{Name: name, Value: value}); err != nil {
			return nil, err
		}
	}
	for name := range initial {
		if name != "A" && !referenced[name] {
			return nil, fmt.Errorf("%w: initial value for %q does not appear in the expression", ErrBadInput, name)
		}
	}

	names := params.Names()
	return &funcModel{
		name:   "expression",
		params: params,
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			xs, err := ndarray.FromFloats(x, len(x))
			if err != nil {
				return nil, err
			}
			bindings := make(map[string]*ndarray.Array, len(names)+1)
			bindings["A"] = xs
			for _, name := range names {
				bindings[name] = ndarray.FromFloat64(values[name])
			}
			out, err := expr.Evaluate(expression, bindings)
			if err != nil {
				return nil, err
			}
			if out.IsScalar() {
				v, err := out.AsFloat64()
				if err != nil {
					return nil, err
				}
				curve := make([]float64, len(x))
				for i := range curve {
					curve[i] = v
				}
				return curve, nil
			}
			return out.Float64s(), nil
		},
	}, nil
}
