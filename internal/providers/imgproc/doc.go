// Package imgproc exposes elementwise array math as a service provider.
//
// Tools:
//   - imgproc.arithmetic: add, subtract, multiply, divide, power,
//     floor_divide, mod over array or scalar operands
//   - imgproc.logical: and, or, not, xor, nand, nor, sub with truth-value
//     coercion
//   - imgproc.evaluate: infix expressions over symbols A..H
//   - imgproc.symbols: free-symbol introspection for expression builders
//
// Operands arrive as decoded JSON (numbers, booleans, nested arrays) and
// are decoded into ndarray values. Non-scalar operands must agree in
// shape exactly; scalars broadcast. Domain errors surface as in-band
// failures with stable message prefixes ("unknown operation: ...",
// "shape mismatch: ...", "division by zero", "syntax error: ...",
// "unbound symbol: ...", "invalid symbol: ...") so callers can correct
// their inputs.
package imgproc
