package fitting

import "errors"

var (
	// ErrBadPolicy indicates a parameter policy string outside free, fixed,
	// and bounded.
	ErrBadPolicy = errors.New("fitting: bad parameter policy")

	// ErrBadInput indicates an invalid model description or sample data:
	// mismatched x/y lengths, empty data, duplicate or missing parameters,
	// malformed bounds, or an unknown model name.
	ErrBadInput = errors.New("fitting: bad input")
)
