// Package fitting exposes nonlinear least-squares fitting as a service
// provider.
//
// Tools:
//   - fitting.fit: fit a model to one dataset
//   - fitting.fit_list: fit the same model to each dataset in sequence
//   - fitting.eval: evaluate a model curve without fitting
//   - fitting.models: list the model builders and their defaults
//
// Model specs arrive as inline objects or JSON/YAML strings and support
// named builders (gaussian, lorentzian, lorentzian2, quadratic, linear),
// restricted infix expression models, and {sum: [...]} composites with
// per-component prefixes. Parameter specs carry initial values, fixed or
// bounded policies, and bounds.
package fitting
