package services

import (
	"errors"

	goa "goa.design/goa/v3/pkg"
)

// Error names shared by every service. The HTTP layer maps them onto
// status codes.
const (
	ErrNameBadRequest   = "bad_request"
	ErrNameUnauthorized = "unauthorized"
	ErrNameNotFound     = "not_found"
)

// MakeBadRequest builds a goa service error from the given error.
func MakeBadRequest(err error) *goa.ServiceError {
	return goa.NewServiceError(err, ErrNameBadRequest, false, false, false)
}

// MakeUnauthorized builds a goa service error from the given error.
func MakeUnauthorized(err error) *goa.ServiceError {
	return goa.NewServiceError(err, ErrNameUnauthorized, false, false, false)
}

// MakeNotFound builds a goa service error from the given error.
func MakeNotFound(err error) *goa.ServiceError {
	return goa.NewServiceError(err, ErrNameNotFound, false, false, false)
}

// BadRequest creates a bad request error with the given message
func BadRequest(message string) *goa.ServiceError {
	return MakeBadRequest(errors.New(message))
}

// Unauthorized creates an unauthorized error with the given message
func Unauthorized(message string) *goa.ServiceError {
	return MakeUnauthorized(errors.New(message))
}

// NotFound creates a not found error with the given message
func NotFound(message string) *goa.ServiceError {
	return MakeNotFound(errors.New(message))
}

// ErrorName returns the goa error name of err, or "" when err is not a
// service error.
func ErrorName(err error) string {
	var serr *goa.ServiceError
	if errors.As(err, &serr) {
		return serr.Name
	}
	return ""
}
