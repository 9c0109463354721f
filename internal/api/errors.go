// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/analysis"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/extract"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/pipeline"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/storage"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewPayloadTooLargeError creates a 413 error for oversized uploads
func NewPayloadTooLargeError(limitBytes int64) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "PAYLOAD_TOO_LARGE",
		Message: fmt.Sprintf("file exceeds the %dMB upload limit", limitBytes/(1024*1024)),
	}
}

// NewUnsupportedFormatError creates a 415 error for unrecognized or
// disallowed file types
func NewUnsupportedFormatError(name string, accepted []string) *APIError {
	return &APIError{
		Status:  http.StatusUnsupportedMediaType,
		Code:    "UNSUPPORTED_FORMAT",
		Message: fmt.Sprintf("unsupported file format: %s (accepted: %s)", name, strings.Join(accepted, ", ")),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
	}
}

// mapDomainError converts pipeline/extraction/storage failures into the
// matching APIError. Unknown errors become 500s.
func mapDomainError(err error) *APIError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "document not found"}
	case errors.Is(err, pipeline.ErrBusy):
		return NewConflictError("another document is being processed, try again shortly")
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return &APIError{Status: http.StatusUnsupportedMediaType, Code: "UNSUPPORTED_FORMAT", Message: "unsupported file format"}
	case errors.Is(err, extract.ErrEmptyContent):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "EMPTY_CONTENT", Message: "no readable text content in file"}
	case errors.Is(err, extract.ErrMalformedPDF):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "MALFORMED_PDF", Message: "could not read PDF file"}
	case errors.Is(err, extract.ErrMalformedWord):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "MALFORMED_DOCUMENT", Message: "could not read Word document"}
	case errors.Is(err, extract.ErrNoSupportedEntries):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "NO_SUPPORTED_ENTRIES", Message: "archive contains no supported files"}
	case errors.Is(err, analysis.ErrServiceUnavailable):
		return NewServiceUnavailableError("analysis service unavailable, the document was not saved")
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = mapDomainError(err)
	}

	// Send JSON response
	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}

// RespondWithError is a helper to respond with an APIError
func RespondWithError(c echo.Context, err *APIError) error {
	return c.JSON(err.Status, err)
}
