package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// StoreErrorMessage describes document store failures.
	StoreErrorMessage = "document store operation failed"
	// NotFoundMessage is returned when no record matched.
	NotFoundMessage = "Not found"
	// InvalidIDMessage is returned when an identifier cannot be parsed.
	InvalidIDMessage = "Invalid id"
	// ValidationMessage is returned when a request body fails schema validation.
	ValidationMessage = "request body failed validation"
	// PayloadTooLargeMessage is returned when a request body exceeds the size cap.
	PayloadTooLargeMessage = "request body too large"
)

// Machine-readable error codes carried in response bodies.
const (
	CodeInternal         = "internal_error"
	CodeStoreUnavailable = "store_unavailable"
	CodeNotFound         = "not_found"
	CodeInvalidArgument  = "invalid_argument"
	CodeValidation       = "validation_failed"
	CodePayloadTooLarge  = "payload_too_large"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid id")
	ErrValidation = errors.New("validation failed")
)

// Issue is a single field-level validation failure.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Code    string
	Message string
	Issues  []Issue
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the underlying error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// New creates a new AppError with the provided information.
func New(err error, status int, code, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NotFound reports that no record matched the lookup.
func NotFound() *AppError {
	return New(ErrNotFound, http.StatusNotFound, CodeNotFound, NotFoundMessage)
}

// InvalidArgument reports an identifier that is not in the store's native format.
func InvalidArgument(cause error) *AppError {
	err := ErrInvalidID
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidID, cause)
	}
	return New(err, http.StatusBadRequest, CodeInvalidArgument, InvalidIDMessage)
}

// Validation reports a request body rejected before reaching the store.
func Validation(issues ...Issue) *AppError {
	e := New(ErrValidation, http.StatusUnprocessableEntity, CodeValidation, ValidationMessage)
	e.Issues = issues
	return e
}

// Store wraps a backend failure with a consistent status code and message.
func Store(err error) *AppError {
	return New(err, http.StatusBadGateway, CodeStoreUnavailable, StoreErrorMessage)
}

// From returns err as an AppError, treating unknown errors as internal failures.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(err, http.StatusInternalServerError, CodeInternal, SystemErrorMessage)
}
