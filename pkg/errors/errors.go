package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// ErrCodeValidation marks input rejected before any request was sent.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeTransport marks a request that never produced a response.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeApplication marks a non-2xx response from the API.
	ErrCodeApplication ErrorCode = "APPLICATION_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	// Status is the HTTP status of an application error, zero otherwise.
	Status int
	// Detail is the server supplied explanation, if the response had one.
	Detail string
	Err    error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Transport wraps a failure to reach the API.
func Transport(message string, err error) *AppError {
	return Wrap(ErrCodeTransport, message, err)
}

// Application creates an error for a non-2xx response.
func Application(message string, status int, detail string) *AppError {
	return &AppError{
		Code:    ErrCodeApplication,
		Message: message,
		Status:  status,
		Detail:  detail,
	}
}

func as(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := as(err)
	return ok && appErr.Code == code
}

// IsValidation checks if error is a local validation failure
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsTransport checks if error is a transport failure
func IsTransport(err error) bool {
	return hasCode(err, ErrCodeTransport)
}

// IsApplication checks if error is a non-2xx API response
func IsApplication(err error) bool {
	return hasCode(err, ErrCodeApplication)
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	appErr, ok := as(err)
	return ok && appErr.Code == ErrCodeApplication && appErr.Status == http.StatusNotFound
}

// IsUnauthorized checks if error is Unauthorized
func IsUnauthorized(err error) bool {
	appErr, ok := as(err)
	return ok && appErr.Code == ErrCodeApplication && appErr.Status == http.StatusUnauthorized
}

// Detail returns the server supplied detail of an application error, or
// the validation message of a validation error. Everything else yields "".
func Detail(err error) string {
	appErr, ok := as(err)
	if !ok {
		return ""
	}
	switch appErr.Code {
	case ErrCodeApplication:
		return appErr.Detail
	case ErrCodeValidation:
		return appErr.Message
	}
	return ""
}
