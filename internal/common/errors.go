// Package common defines shared constants and sentinel errors used across
// the service and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorValidation is wrapped by every input validation failure so the
	// transport can map the whole family to a client error.
	ErrorValidation = errors.New("validation error")
)
