// Package tomo coordinates tomography reconstruction pipelines.
//
// All numerical work happens in an external Backend; this package owns what
// the backend does not: dataset lifecycle, stage ordering, and array
// plumbing. A Dataset is an explicit state machine
//
//	Loaded -> Normalized -> DriftCorrected -> Reconstructed
//
// where drift correction is optional (reconstruction accepts Normalized or
// DriftCorrected) and any stage invoked out of order fails fast with
// ErrBadTransition instead of silently operating on the wrong data. Phase
// retrieval and center operations run between normalization and
// reconstruction without changing state.
//
// The Manager keeps handles alive across requests, keyed by random ids with
// a deterministic dimension fingerprint for log correlation. Mutating stage
// methods act on the managed handle; NormalizedCopy and DriftCorrectedCopy
// return stage output without advancing the handle.
package tomo
