package fitting

import "fmt"

// Model is a parameterized curve. Eval computes the model over x for a full
// assignment of parameter values; it must not mutate x.
type Model interface {
	Name() string
	Params() *ParamSet
	Eval(values map[string]float64, x []float64) ([]float64, error)
}

// funcModel implements Model with an evaluation closure. All built-in model
// builders return one.
type funcModel struct {
	name   string
	params *ParamSet
	eval   func(values map[string]float64, x []float64) ([]float64, error)
}

func (m *funcModel) Name() string      { return m.name }
func (m *funcModel) Params() *ParamSet { return m.params }

func (m *funcModel) Eval(values map[string]float64, x []float64) ([]float64, error) {
	return m.eval(values, x)
}

// Sum composes models by pointwise addition. Parameter sets merge in order;
// colliding names are rejected, so composite parts need distinct prefixes.
func Sum(models ...Model) (Model, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: sum of zero models", ErrBadInput)
	}
	if len(models) == 1 {
		return models[0], nil
	}

	merged := NewParamSet()
	names := ""
	for i, m := range models {
		if err := merged.merge(m.Params()); err != nil {
			return nil, err
		}
		if i > 0 {
			names += "+"
		}
		names += m.Name()
	}

	parts := append([]Model(nil), models...)
	return &funcModel{
		name:   names,
		params: merged,
		eval: func(values map[string]float64, x []float64) ([]float64, error) {
			total := make([]float64, len(x))
			for _, part := range parts {
				curve, err := part.Eval(values, x)
				if err != nil {
					return nil, err
				}
				for i, v := range curve {
					total[i] += v
				}
			}
			return total, nil
		},
	}, nil
}
