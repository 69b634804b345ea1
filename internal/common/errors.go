package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Filter errors
	ErrInvalidFilterSyntax = errors.New("invalid filter syntax")
	ErrUnsupportedOperator = errors.New("unsupported filter operator")

	// Content lifecycle errors
	ErrSchemaNotFound    = errors.New("schema not found")
	ErrContentNotFound   = errors.New("content not found")
	ErrVersionNotFound   = errors.New("version not found")
	ErrNoPublishableData = errors.New("no publishable data")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Storage errors
	ErrStorageFailure = errors.New("storage failure")
)

// WrapStorage hides the underlying persistence error behind ErrStorageFailure.
// The original error stays in the chain for logging but is never shown to clients.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorageFailure, err)
}
