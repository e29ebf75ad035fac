package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorResponse is the JSON shape returned by API handlers for any error.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the serializable parts of an InternalError.
type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse converts any error into the API error shape. For
// InternalError the hint is preferred over the raw message so internal
// wording never leaks to callers.
func NewErrorResponse(err error) *ErrorResponse {
	detail := ErrorDetail{Message: "An unexpected error occurred"}

	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.Hint() != "" {
			detail.Message = ie.Hint()
		} else {
			detail.Message = ie.message
		}
		detail.Details = ie.ReportableDetails()
	} else if err != nil {
		detail.Message = err.Error()
	}

	return &ErrorResponse{Success: false, Error: detail}
}

// HTTPStatusFromErr maps an error's mark to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrHTTPClient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
