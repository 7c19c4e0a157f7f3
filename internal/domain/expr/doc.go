// Package expr evaluates restricted infix expressions over named operands.
//
// Expressions combine the symbols A through H, numeric literals, and a fixed
// operator set:
//
//	+  -  *  /  //  %  **        arithmetic
//	>  <  >=  <=  ==  !=         comparisons (no chaining)
//	&  |  ^  ~                   bitwise
//	-  (unary)                   negation
//
// The string is lexed and parsed into a restricted syntax tree, then the tree
// is interpreted directly against a bindings map using the ndarray kernels.
// There is no host-language evaluation of any kind: no function calls, no
// attribute access, no name resolution beyond the bindings. An expression can
// compute over its operands and nothing else.
//
// Validation order is fixed: syntax errors first (ErrSyntax), then symbols
// missing from the bindings (ErrUnboundSymbol), then symbols outside A..H
// (ErrInvalidSymbol).
//
// Example:
//
//	out, err := expr.Evaluate("(A+B)/(C+D)", map[string]*ndarray.Array{
//		"A": a, "B": b, "C": c, "D": d,
//	})
package expr
