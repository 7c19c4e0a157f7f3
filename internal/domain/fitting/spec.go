package fitting

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// ModelSpec is the declarative wire form of a model: either a single model
// block or a composite {sum: [...]} of them. Accepted as JSON or YAML.
type ModelSpec struct {
	Model      string               `json:"model,omitempty" yaml:"model,omitempty"`
	Prefix     string               `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Expression string               `json:"expression,omitempty" yaml:"expression,omitempty"`
	Params     map[string]ParamSpec `json:"params,omitempty" yaml:"params,omitempty"`
	Sum        []ModelSpec          `json:"sum,omitempty" yaml:"sum,omitempty"`
}

// ParamSpec describes one parameter: initial value, policy, and bounds.
// Supplying min and max without a policy implies bounded.
type ParamSpec struct {
	Value  float64  `json:"value" yaml:"value"`
	Policy string   `json:"policy,omitempty" yaml:"policy,omitempty"`
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// ParseModelSpec parses a JSON or YAML model description into a Model.
// Content starting with '{' or '[' parses as JSON (sonic), anything else as
// YAML.
func ParseModelSpec(content []byte) (Model, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty model spec", ErrBadInput)
	}

	var spec ModelSpec
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := sonic.Unmarshal([]byte(trimmed), &spec); err != nil {
			return nil, fmt.Errorf("%w: parse JSON: %v", ErrBadInput, err)
		}
	} else {
		if err := yaml.Unmarshal(content, &spec); err != nil {
			return nil, fmt.Errorf("%w: parse YAML: %v", ErrBadInput, err)
		}
	}

	return BuildModel(spec)
}

// BuildModel converts a parsed spec into a Model, expanding composites.
func BuildModel(spec ModelSpec) (Model, error) {
	if spec.Sum != nil {
		if spec.Model != "" {
			return nil, fmt.Errorf("%w: spec has both model and sum", ErrBadInput)
		}
		if len(spec.Sum) == 0 {
			return nil, fmt.Errorf("%w: sum needs at least one component", ErrBadInput)
		}
		parts := make([]Model, len(spec.Sum))
		for i, sub := range spec.Sum {
			part, err := BuildModel(sub)
			if err != nil {
				return nil, fmt.Errorf("sum component %d: %w", i, err)
			}
			parts[i] = part
		}
		return Sum(parts...)
	}

	if spec.Model == "" {
		return nil, fmt.Errorf("%w: model name is required", ErrBadInput)
	}

	model, err := buildNamed(spec)
	if err != nil {
		return nil, err
	}
	if err := applyParamSpecs(model.Params(), spec.Prefix, spec.Params); err != nil {
		return nil, err
	}
	return model, nil
}

func buildNamed(spec ModelSpec) (Model, error) {
	value := func(name string, def float64) float64 {
		if p, ok := spec.Params[name]; ok {
			return p.Value
		}
		return def
	}

	switch strings.ToLower(spec.Model) {
	case "gaussian":
		return Gaussian(spec.Prefix, value("area", 1), value("center", 0), value("sigma", 1)), nil
	case "lorentzian":
		return Lorentzian(spec.Prefix, value("area", 1), value("center", 0), value("sigma", 1)), nil
	case "lorentzian2":
		return Lorentzian2(spec.Prefix, value("area", 1), value("center", 0), value("sigma", 1)), nil
	case "quadratic":
		return Quadratic(spec.Prefix, value("a", 1), value("b", 0), value("c", 0)), nil
	case "linear":
		return Linear(spec.Prefix, value("slope", 1), value("intercept", 0)), nil
	case "expression":
		if spec.Expression == "" {
			return nil, fmt.Errorf("%w: expression model needs an expression", ErrBadInput)
		}
		initial := make(map[string]float64, len(spec.Params))
		for name, p := range spec.Params {
			initial[name] = p.Value
		}
		return ExpressionModel(spec.Expression, initial)
	default:
		return nil, fmt.Errorf("%w: unknown model %q", ErrBadInput, spec.Model)
	}
}

// applyParamSpecs sets policies and bounds onto a freshly built parameter
// set. Expression models use bare symbol names; the named builders prefix
// theirs, so lookups try both spellings.
func applyParamSpecs(ps *ParamSet, prefix string, specs map[string]ParamSpec) error {
	for name, p := range specs {
		full := prefix + name
		if _, ok := ps.Get(full); !ok {
			if _, bare := ps.Get(name); !bare {
				return fmt.Errorf("%w: parameter %q does not belong to this model", ErrBadInput, name)
			}
			full = name
		}

		policy, err := ParsePolicy(p.Policy)
		if err != nil {
			return err
		}
		if policy == Free && (p.Min != nil || p.Max != nil) {
			policy = Bounded
		}

		switch policy {
		case Fixed:
			if err := ps.Fix(full); err != nil {
				return err
			}
		case Bounded:
			if p.Min == nil || p.Max == nil {
				return fmt.Errorf("%w: bounded parameter %q needs both min and max", ErrBadInput, name)
			}
			if err := ps.Bound(full, *p.Min, *p.Max); err != nil {
				return err
			}
		}
	}
	return nil
}
