package platform

import "errors"

var (
	// ErrNotFound is returned when a relationship, instance, or route is absent.
	ErrNotFound = errors.New("platform: not found")

	// ErrNotApplicable is returned when the process is not running as a
	// platform application, or the value is not available in the current
	// phase (build vs. runtime).
	ErrNotApplicable = errors.New("platform: not applicable")
)
