package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrRegionFailed  = errors.New("region fetch failed")
	ErrIntegrity     = errors.New("dataset integrity violation")
	ErrInvalidConfig = errors.New("invalid configuration")
)
