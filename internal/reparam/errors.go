package reparam

import "errors"

// Sampling errors. Returned errors wrap these with the offending values, so
// match with errors.Is.
var (
	ErrShapeMismatch      = errors.New("mean and std shapes are not compatible")
	ErrInvalidSampleCount = errors.New("sample count must be >= 0")
	ErrEmptySample        = errors.New("at least one sample is required")
)
