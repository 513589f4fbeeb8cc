package interp

import "errors"

var (
	// ErrNilField indicates a call without a field.
	ErrNilField = errors.New("field must not be nil")
	// ErrWrongFeature indicates a field which does not hold line features.
	ErrWrongFeature = errors.New("field does not hold line features")
	// ErrNotLinked indicates a field without link chain support.
	ErrNotLinked = errors.New("field is not linked")
	// ErrTooFewSlots indicates a time axis with fewer than 2 inbetween slots.
	ErrTooFewSlots = errors.New("time axis needs at least 2 inbetween slots")
	// ErrNoKeyframes indicates a field without any keyframe.
	ErrNoKeyframes = errors.New("field has no keyframes")
	// ErrNoLinkChains indicates a field without link chains.
	ErrNoLinkChains = errors.New("field has no link chains")
	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("invalid interpolation configuration")
)
