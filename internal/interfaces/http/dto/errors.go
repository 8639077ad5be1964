package dto

import (
	"net/http"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
)

// Error codes returned in the error envelope. The pipeline codes match the
// print domain's error codes so clients see the same names in logs and
// responses.
const (
	// ErrCodeInternal is used for unexpected failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotFound is used for unknown routes
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeInvalidJSON is used when the body cannot be decoded
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key was already used
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// Print pipeline error codes
const (
	ErrCodeInvalidInput       = string(printing.ErrCodeInvalidInput)
	ErrCodeRenderFailed       = string(printing.ErrCodeRenderFailed)
	ErrCodeRenderTimeout      = string(printing.ErrCodeRenderTimeout)
	ErrCodeNoPrinterAvailable = string(printing.ErrCodeNoPrinterAvailable)
	ErrCodeHelperNotFound     = string(printing.ErrCodeHelperNotFound)
	ErrCodeDispatchFailed     = string(printing.ErrCodeDispatchFailed)
	ErrCodeCleanupFailed      = string(printing.ErrCodeCleanupFailed)
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInvalidJSON:     http.StatusBadRequest,

	ErrCodeDuplicateRequest: http.StatusConflict,

	// Caller mistakes -> 400 Bad Request
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Missing hardware or helper -> 503 Service Unavailable, the host may
	// become ready once a printer is attached or the helper installed
	ErrCodeNoPrinterAvailable: http.StatusServiceUnavailable,
	ErrCodeHelperNotFound:     http.StatusServiceUnavailable,

	ErrCodeRenderFailed:   http.StatusInternalServerError,
	ErrCodeRenderTimeout:  http.StatusInternalServerError,
	ErrCodeDispatchFailed: http.StatusInternalServerError,
	ErrCodeCleanupFailed:  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
