package model

import "errors"

// Error classes raised by the simulation core. They are returned at the
// point of first violation and propagate uncaught to the caller; the core
// never retries or swallows them.
var (
	// ErrInvalidRoute indicates malformed or insufficient route geometry.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidParameter indicates a non-finite or out-of-domain scalar
	// input, such as a negative capacity or a NaN temperature.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidConfiguration indicates an unsupported simulation setup,
	// such as an unsupported horizon or a non-positive fleet size.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
