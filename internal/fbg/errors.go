package fbg

import "errors"

var (
	// ErrInvalidRange reports a requested window whose start is after its
	// end. Detected before any fetch is attempted.
	ErrInvalidRange = errors.New("start time is later than end time")

	// ErrNotConfigured reports a zone and quantity type with no registered
	// calculation. This is a registry defect surfaced loudly, not a runtime
	// data condition: a zone with no matching sensors yields empty records,
	// never this error.
	ErrNotConfigured = errors.New("no calculation registered")
)
