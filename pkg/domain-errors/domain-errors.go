package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"

	// Authentication and session lifecycle codes.
	CodeUnauthenticated    Code = "unauthenticated"     // no, invalid, expired, or revoked access token
	CodeVerificationFailed Code = "verification_failed" // generic OTP failure, deliberately non-specific
	CodeAlreadyRegistered  Code = "already_registered"  // directory has an active account for the principal
	CodeUnknownPrincipal   Code = "unknown_principal"   // directory has no confirmed account for the principal

	// Credential store codes.
	CodeDuplicateCredentialID Code = "duplicate_credential_id" // bulk save collided with an existing record
	CodeInvalidShareToken     Code = "invalid_share_token"     // share-request token could not be decoded

	// Collaborator failure codes, surfaced unchanged to callers.
	CodeDirectoryError Code = "directory_error"
	CodeDeliveryError  Code = "delivery_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
