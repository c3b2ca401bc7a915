package services

import "errors"

var (
	// ErrServerNotFound and ErrConnectionNotFound map to 404 at the API edge.
	ErrServerNotFound     = errors.New("RDP server not found")
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrValidation wraps bad input; nothing is written when it is returned.
	ErrValidation = errors.New("validation failed")
)
