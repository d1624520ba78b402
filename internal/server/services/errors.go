package services

import (
	"github.com/osamanazar47/alx-files-manager/internal/common"
)

// ValidationError is a client mistake whose message is safe to return
// verbatim. It matches common.ErrorValidation with errors.Is.
type ValidationError struct {
	msg    string
	causes []error
}

func newValidationError(msg string, causes ...error) *ValidationError {
	return &ValidationError{msg: msg, causes: causes}
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Unwrap() []error {
	return append([]error{common.ErrorValidation}, e.causes...)
}

var (
	ErrMissingEmail    = newValidationError("Missing email")
	ErrMissingPassword = newValidationError("Missing password")
	ErrUserExists      = newValidationError("Already exist", common.ErrorAlreadyExists)

	ErrMissingName        = newValidationError("Missing name")
	ErrMissingType        = newValidationError("Missing type")
	ErrMissingData        = newValidationError("Missing data")
	ErrParentNotFound     = newValidationError("Parent not found")
	ErrParentNotFolder    = newValidationError("Parent is not a folder")
	ErrFolderHasNoContent = newValidationError("A folder doesn't have content")
)
