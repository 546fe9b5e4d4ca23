package model

import "errors"

var (
	// ErrValidation marks input rejected by a manager operation.
	ErrValidation = errors.New("validation failed")
	// ErrDeserialization marks a snapshot that exists but cannot be decoded.
	ErrDeserialization = errors.New("cannot decode snapshot")
)
