package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP status codes.
var (
	// ErrNotFound means a vendor/service/reminder id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input was rejected before anything was persisted.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate means a uniqueness rule (vendor name/email, service triple)
	// was violated. A duplicate reminder key is NOT an error; see
	// ReminderRepository.CreateIfAbsent.
	ErrDuplicate = errors.New("already exists")
)
