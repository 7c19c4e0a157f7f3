// Package tomo exposes tomographic preprocessing and reconstruction as
// service tools over datasets held by a domain manager.
//
// tomo.load decodes projection, reference, and angle arrays into a managed
// dataset and returns its handle. The pipeline tools (normalize,
// correct_drift, phase_retrieval, gridrec, sirt, art) advance that dataset
// through its states; find_center and diagnose_center probe the rotation
// center; data, state, list, and release inspect and drop datasets.
//
// Every numerical stage runs on the manager's external backend, so the
// provider is only registered when one is configured. Stage failures and
// ordering violations surface as in-band failure results with stable
// message prefixes ("bad input:", "invalid stage for dataset state:",
// "backend unavailable").
package tomo
