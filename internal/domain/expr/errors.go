package expr

import "errors"

var (
	// ErrSyntax indicates the expression could not be lexed or parsed.
	// Nothing is evaluated when parsing fails.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrUnboundSymbol indicates the expression references a symbol with no
	// value in the bindings.
	ErrUnboundSymbol = errors.New("expr: unbound symbol")

	// ErrInvalidSymbol indicates a referenced symbol falls outside the fixed
	// set A through H.
	ErrInvalidSymbol = errors.New("expr: invalid symbol")
)
