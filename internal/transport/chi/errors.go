package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prethrift/prethrift/internal/domain"
)

// ErrorCode is the machine-readable error identifier in error responses.
type ErrorCode string

const (
	CodeBadRequest              ErrorCode = "bad_request"
	CodeValidationFailed        ErrorCode = "validation_failed"
	CodeGarmentNotFound         ErrorCode = "garment_not_found"
	CodeInvalidAction           ErrorCode = "invalid_action"
	CodeEmbeddingProviderError  ErrorCode = "embedding_provider_error"
	CodeExtractionProviderError ErrorCode = "extraction_provider_error"
	CodeInternalError           ErrorCode = "internal_error"
)

// ErrorResponse is the error payload for every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrGarmentNotFound,
		domain.ErrInvalidAction,
		domain.ErrEmptyQuery,
		domain.ErrEmbeddingProviderError,
		domain.ErrExtractionProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
