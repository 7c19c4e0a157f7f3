package ops

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

// ErrUnknownOperation indicates an operation name outside the dispatch tables.
var ErrUnknownOperation = errors.New("ops: unknown operation")

type binaryKernel func(x1, x2 *ndarray.Array) (*ndarray.Array, error)

var arithmeticKernels = map[string]binaryKernel{
	"add":          ndarray.Add,
	"subtract":     ndarray.Sub,
	"multiply":     ndarray.Mul,
	"divide":       ndarray.Div,
	"power":        ndarray.Pow,
	"floor_divide": ndarray.FloorDiv,
	"mod":          ndarray.Mod,
}

// Long-form names accepted by earlier releases.
var arithmeticAliases = map[string]string{
	"addition":       "add",
	"subtraction":    "subtract",
	"multiplication": "multiply",
	"division":       "divide",
}

var logicalKernels = map[string]binaryKernel{
	"and":  ndarray.LogicalAnd,
	"or":   ndarray.LogicalOr,
	"xor":  ndarray.LogicalXor,
	"nand": ndarray.LogicalNand,
	"nor":  ndarray.LogicalNor,
	"sub":  ndarray.LogicalSub,
}

var logicalAliases = map[string]string{
	"subtract": "sub",
}

func normalize(op string, aliases map[string]string) string {
	op = strings.ToLower(strings.TrimSpace(op))
	if canonical, ok := aliases[op]; ok {
		return canonical
	}
	return op
}

// Arithmetic applies a named elementwise arithmetic operation to two operands.
// Shape and division rules follow the ndarray kernels: scalars broadcast,
// non-scalar shapes must match exactly, and zero denominators fail before any
// element is computed.
func Arithmetic(op string, x1, x2 *ndarray.Array) (*ndarray.Array, error) {
	kernel, ok := arithmeticKernels[normalize(op, arithmeticAliases)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return kernel(x1, x2)
}

// Logical applies a named elementwise logical operation. Operands coerce to
// truth values (nonzero is true) and results are boolean. The unary "not"
// reads only x1 and ignores x2 entirely, including a nil one.
func Logical(op string, x1, x2 *ndarray.Array) (*ndarray.Array, error) {
	name := normalize(op, logicalAliases)
	if name == "not" {
		return ndarray.LogicalNot(x1), nil
	}
	kernel, ok := logicalKernels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if x2 == nil {
		return nil, fmt.Errorf("ops: operation %q requires a second operand", name)
	}
	return kernel(x1, x2)
}

// ArithmeticOps returns the canonical arithmetic operation names, sorted.
func ArithmeticOps() []string {
	names := make([]string, 0, len(arithmeticKernels))
	for name := range arithmeticKernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogicalOps returns the canonical logical operation names, sorted.
func LogicalOps() []string {
	names := make([]string, 0, len(logicalKernels)+1)
	for name := range logicalKernels {
		names = append(names, name)
	}
	names = append(names, "not")
	sort.Strings(names)
	return names
}
