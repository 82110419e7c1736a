package domain

import "errors"

var (
	// ErrInputInvalid marks raw user input that does not parse to a finite number.
	ErrInputInvalid = errors.New("input is not a number")

	// ErrInputOutOfRange marks a parsed measurement outside the plausible human range.
	ErrInputOutOfRange = errors.New("input out of range")

	// ErrUpstreamUnavailable marks a failed or non-200 upstream fetch.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamMalformed marks an upstream payload that does not have the expected shape.
	ErrUpstreamMalformed = errors.New("upstream payload malformed")

	// ErrSuperseded is returned for a location fix replaced by a newer one.
	ErrSuperseded = errors.New("superseded by a newer request")
)
