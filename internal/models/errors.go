package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidFixture = errors.New("invalid fixture")
	ErrInvalidRecord  = errors.New("invalid record")
)
