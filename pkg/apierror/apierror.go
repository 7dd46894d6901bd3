package apierror

import (
	"errors"
	"fmt"
)

// Stable machine-readable codes. Clients and tests match on these, never on
// message text.
const (
	CodeBadRequest             = "BAD_REQUEST"
	CodeMissingToken           = "MISSING_TOKEN"
	CodeTokenMalformed         = "TOKEN_MALFORMED"
	CodeTokenInvalid           = "TOKEN_INVALID"
	CodeTokenExpired           = "TOKEN_EXPIRED"
	CodeIdentityGone           = "IDENTITY_GONE"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeInvalidCurrentPassword = "INVALID_CURRENT_PASSWORD"
	CodeEmailTaken             = "EMAIL_TAKEN"
	CodeNationalIDTaken        = "NATIONAL_ID_TAKEN"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeStorageUnavailable     = "STORAGE_UNAVAILABLE"
	CodeInternal               = "INTERNAL_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Wrap keeps the underlying error reachable via errors.Is/As while presenting
// a stable code to callers.
func Wrap(code string, message string, status int, cause error) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status, cause: cause}
}

// CodeOf returns the machine code carried by err, or an empty string if err
// is not an APIError.
func CodeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
