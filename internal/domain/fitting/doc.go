// Package fitting fits parameterized curve models to sample data.
//
// A Model couples an ordered ParamSet with an evaluation function. Built-in
// builders cover the common line shapes (Gaussian, Lorentzian, Lorentzian2,
// Quadratic, Linear); ExpressionModel derives a model from a restricted
// infix expression where symbol A is the independent variable; Sum composes
// models pointwise. Models also arrive declaratively as JSON or YAML through
// ParseModelSpec.
//
// Each parameter carries a policy: free parameters vary without constraint,
// fixed parameters never move, bounded parameters vary inside [min, max] via
// a sine transform into the optimizer's unconstrained space.
//
// The Engine assembles a least-squares objective and minimizes it with
// gonum's Nelder-Mead. The numerical solver is external; this package owns
// only parameter bookkeeping, objective assembly, and result statistics
// (chi-square, reduced chi-square, R-squared via gonum/stat).
//
// Example:
//
//	model := fitting.Gaussian("g_", 1, 0, 1)
//	model.Params().Bound("g_sigma", 0.01, 10)
//	result, err := fitting.NewEngine(fitting.Config{}).Fit(model, x, y)
//	// result.Values["g_center"], result.Curve
package fitting
