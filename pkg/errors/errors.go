package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the store and service layers.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeAlreadyFavorited   = "ALREADY_FAVORITED"
	CodeOffline            = "OFFLINE"
	CodeUnreachable        = "UNREACHABLE"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeEmptyCatalog       = "EMPTY_CATALOG"
	CodeInternal           = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     nil,
	}
}

// AlreadyFavorited is the conflict raised when an add or toggle finds an
// existing favorite for the same (user, product) pair.
func AlreadyFavorited(productID string) *AppError {
	return &AppError{
		Code:    CodeAlreadyFavorited,
		Message: fmt.Sprintf("Product %s is already in favorites", productID),
		Status:  http.StatusConflict,
	}
}

// Offline marks a store call that failed before leaving the client.
func Offline(message string, err error) *AppError {
	return &AppError{
		Code:    CodeOffline,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// Unreachable marks a store call that left the client but got no answer.
func Unreachable(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnreachable,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func PermissionDenied(message string, err error) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

// PreconditionFailed covers query-capability failures such as a missing
// composite index; callers use it to decide on the unordered fallback.
func PreconditionFailed(message string, err error) *AppError {
	return &AppError{
		Code:    CodePreconditionFailed,
		Message: message,
		Status:  http.StatusPreconditionFailed,
		Err:     err,
	}
}

// EmptyCatalog flags a catalog load that came back with zero products,
// an anomaly on a healthy deployment.
func EmptyCatalog() *AppError {
	return &AppError{
		Code:    CodeEmptyCatalog,
		Message: "Product catalog returned no products",
		Status:  http.StatusServiceUnavailable,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Transient reports whether an error is a transport failure the caller may
// retry as-is.
func Transient(err error) bool {
	return Is(err, CodeOffline) || Is(err, CodeUnreachable)
}
