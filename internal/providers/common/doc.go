// Package common provides shared helpers for service providers.
//
// Providers decode tool parameters from decoded-JSON maps and report
// outcomes as types.Result values. Domain failures (bad operands, shape
// mismatches, unknown datasets) are in-band Failure results so callers
// can correct their inputs; the error return is reserved for transport
// and infrastructure problems.
//
// Components:
//   - Success / Failure / Failuref: result constructors
//   - GetString / GetNumber / GetInt / GetBool / GetNumbers / GetMap:
//     typed parameter extraction with coercion
//   - GetOperand / GetOptionalOperand: ndarray operand decoding
package common
