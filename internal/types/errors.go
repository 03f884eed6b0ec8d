package types

import "errors"

// Sentinel errors for VaxHub operations.
var (
	// ErrInvalidDOB indicates a blank or unparseable patient date of birth.
	// Age-dependent rules treat this as "rule does not apply" (fail open).
	ErrInvalidDOB = errors.New("patient date of birth is missing or malformed")

	// ErrMissingCandidate indicates a verification request without a dose.
	ErrMissingCandidate = errors.New("dose candidate is required")

	// ErrUnknownInventorySource indicates an inventory row with a source
	// value outside the known funding buckets.
	ErrUnknownInventorySource = errors.New("unknown inventory source")
)
