package vectorstore

import "errors"

// Error kinds shared by all adapters. Adapters wrap these with
// operation-specific context via fmt.Errorf("...: %w", ...), so callers can
// classify failures with errors.Is regardless of the backend in use.
var (
	// ErrInitialization is returned when the backend client could not be
	// constructed. Fatal to store creation.
	ErrInitialization = errors.New("vectorstore: initialization failed")

	// ErrConversion is returned when an id, embedding, or metadata value
	// could not be coerced to the backend's expected type.
	ErrConversion = errors.New("vectorstore: conversion failed")

	// ErrValidation is returned when a caller-supplied query violates a
	// precondition. The backend is never contacted.
	ErrValidation = errors.New("vectorstore: invalid request")

	// ErrBackend is returned when the downstream call failed. The original
	// cause is preserved in the wrap chain for diagnostics.
	ErrBackend = errors.New("vectorstore: backend call failed")
)

// IsConversionError checks if the error is a type coercion failure.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsValidationError checks if the error is a request precondition failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsBackendError checks if the error originated in the backend call.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackend)
}
