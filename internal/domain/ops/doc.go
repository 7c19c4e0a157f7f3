// Package ops dispatches named elementwise operations to the ndarray kernels.
//
// Two dispatch tables cover the compute surface:
//   - Arithmetic: add, divide, floor_divide, mod, multiply, power, subtract
//   - Logical: and, nand, nor, not, or, sub, xor
//
// Long-form names from earlier releases (addition, subtraction,
// multiplication, division, and subtract for logical sub) normalize to their
// canonical forms. Unknown names fail with ErrUnknownOperation; everything
// else (shape checks, promotion, division policy) is delegated to ndarray.
package ops
