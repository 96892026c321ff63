package client

import (
	"fmt"
	"net/http"

	"github.com/hbk8784/ai-note-client/internal/common"
)

// APIError is a non-2xx answer from the service. It unwraps to one of the
// common sentinels so callers can match with errors.Is.
type APIError struct {
	Status  int
	Message string
	kind    error
}

// NewAPIError classifies status the same way responses are classified.
func NewAPIError(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg, kind: mapStatus(status)}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// mapStatus classifies an HTTP status code.
func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return common.ErrUnauthorized
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusConflict, code == http.StatusPreconditionFailed:
		return common.ErrConflict
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return common.ErrNetwork
	default:
		return common.ErrValidation
	}
}
