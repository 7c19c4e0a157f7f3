package expr

import (
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// validSymbol reports whether name belongs to the fixed symbol set A..H.
func validSymbol(name string) bool {
	return len(name) == 1 && name[0] >= 'A' && name[0] <= 'H'
}

// Evaluate parses the expression, validates its symbols against the bindings,
// and interprets the tree with the ndarray kernels. Validation order is
// fixed: syntax first, then unbound symbols, then out-of-set symbols. The
// walk is side-effect free and never mutates a bound operand.
func Evaluate(expression string, bindings map[string]*ndarray.Array) (*ndarray.Array, error) {
	root, err := parse(expression)
	if err != nil {
		return nil, err
	}

	free := collectFree(root)
	for _, name := range free {
		if v, ok := bindings[name]; !ok || v == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnboundSymbol, name)
		}
	}
	for _, name := range free {
		if !validSymbol(name) {
			return nil, fmt.Errorf("%w: %q is outside A..H", ErrInvalidSymbol, name)
		}
	}

	return eval(root, bindings)
}

// FreeSymbols parses the expression and returns the referenced symbols in
// first-appearance order. Symbols are reported as written, without binding
// or validity checks.
func FreeSymbols(expression string) ([]string, error) {
	root, err := parse(expression)
	if err != nil {
		return nil, err
	}
	return collectFree(root), nil
}

func collectFree(root node) []string {
	seen := make(map[string]bool)
	var out []string
	root.freeSymbols(seen, &out)
	return out
}

func eval(n node, bindings map[string]*ndarray.Array) (*ndarray.Array, error) {
	switch x := n.(type) {
	case *symbolNode:
		return bindings[x.name], nil
	case *numberNode:
		if x.isFloat {
			return ndarray.FromFloat64(x.floatVal), nil
		}
		return ndarray.FromInt64(x.intVal), nil
	case *unaryNode:
		operand, err := eval(x.operand, bindings)
		if err != nil {
			return nil, err
		}
		if x.op == tokenMinus {
			return ndarray.Neg(operand), nil
		}
		return ndarray.BitNot(operand)
	case *binaryNode:
		left, err := eval(x.left, bindings)
		if err != nil {
			return nil, err
		}
		right, err := eval(x.right, bindings)
		if err != nil {
			return nil, err
		}
		return applyBinary(x.op, left, right)
	default:
		return nil, fmt.Errorf("%w: unsupported expression form", ErrSyntax)
	}
}

func applyBinary(op tokenKind, left, right *ndarray.Array) (*ndarray.Array, error) {
	switch op {
	case tokenPlus:
		return ndarray.Add(left, right)
	case tokenMinus:
		return ndarray.Sub(left, right)
	case tokenStar:
		return ndarray.Mul(left, right)
	case tokenSlash:
		return ndarray.Div(left, right)
	case tokenDoubleSlash:
		return ndarray.FloorDiv(left, right)
	case tokenPercent:
		return ndarray.Mod(left, right)
	case tokenDoubleStar:
		return ndarray.Pow(left, right)
	case tokenAmp:
		return ndarray.BitAnd(left, right)
	case tokenPipe:
		return ndarray.BitOr(left, right)
	case tokenCaret:
		return ndarray.BitXor(left, right)
	case tokenGt:
		return ndarray.Gt(left, right)
	case tokenGe:
		return ndarray.Ge(left, right)
	case tokenLt:
		return ndarray.Lt(left, right)
	case tokenLe:
		return ndarray.Le(left, right)
	case tokenEq:
		return ndarray.Eq(left, right)
	case tokenNe:
		return ndarray.Ne(left, right)
	default:
		return nil, fmt.Errorf("%w: unsupported operator %s", ErrSyntax, op)
	}
}
