package fitting

import (
	"fmt"
	"strings"
)

// Policy controls how the engine treats a parameter during a fit.
type Policy uint8

const (
	// Free parameters vary without constraint.
	Free Policy = iota
	// Fixed parameters keep their initial value.
	Fixed
	// Bounded parameters vary within [Min, Max].
	Bounded
)

func (p Policy) String() string {
	switch p {
	case Free:
		return "free"
	case Fixed:
		return "fixed"
	case Bounded:
		return "bounded"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy converts a policy string. The empty string means Free.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free":
		return Free, nil
	case "fixed":
		return Fixed, nil
	case "bounded":
		return Bounded, nil
	default:
		return Free, fmt.Errorf("%w: %q", ErrBadPolicy, s)
	}
}

// Param is one named model parameter with its initial value and policy.
// Min and Max are meaningful only when Policy is Bounded.
type Param struct {
	Name   string
	Value  float64
	Policy Policy
	Min    float64
	Max    float64
}

// ParamSet is an ordered collection of parameters. Order is insertion order
// and determines the layout of the optimizer's internal vector, keeping fits
// deterministic.
type ParamSet struct {
	names  []string
	params map[string]*Param
}

// NewParamSet creates an empty parameter set
func NewParamSet() *ParamSet {
	return &ParamSet{params: make(map[string]*Param)}
}

// Add appends a parameter. Duplicate names are rejected.
func (s *ParamSet) Add(p Param) error {
	if p.Name == "" {
		return fmt.Errorf("%w: parameter name is empty", ErrBadInput)
	}
	if _, exists := s.params[p.Name]; exists {
		return fmt.Errorf("%w: duplicate parameter %q", ErrBadInput, p.Name)
	}
	cp := p
	s.names = append(s.names, p.Name)
	s.params[p.Name] = &cp
	return nil
}

// Get returns a copy of the named parameter
func (s *ParamSet) Get(name string) (Param, bool) {
	p, ok := s.params[name]
	if !ok {
		return Param{}, false
	}
	return *p, true
}

// Names returns the parameter names in insertion order
func (s *ParamSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of parameters
func (s *ParamSet) Len() int { return len(s.names) }

// Fix pins the named parameter to its current initial value.
func (s *ParamSet) Fix(name string) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrBadInput, name)
	}
	p.Policy = Fixed
	return nil
}

// Bound constrains the named parameter to [min, max].
func (s *ParamSet) Bound(name string, min, max float64) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrBadInput, name)
	}
	if !(min < max) {
		return fmt.Errorf("%w: bounds for %q must satisfy min < max (got %g, %g)", ErrBadInput, name, min, max)
	}
	p.Policy = Bounded
	p.Min = min
	p.Max = max
	return nil
}

// SetValue replaces the initial value of the named parameter.
func (s *ParamSet) SetValue(name string, value float64) error {
	p, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrBadInput, name)
	}
	p.Value = value
	return nil
}

// Values returns the initial value of every parameter by name
func (s *ParamSet) Values() map[string]float64 {
	out := make(map[string]float64, len(s.names))
	for name, p := range s.params {
		out[name] = p.Value
	}
	return out
}

func (s *ParamSet) merge(other *ParamSet) error {
	for _, name := range other.names {
		if err := s.Add(*other.params[name]); err != nil {
			return err
		}
	}
	return nil
}
