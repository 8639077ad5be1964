package printing

// ErrorCode identifies a class of print pipeline failure
type ErrorCode string

// Error codes for the print pipeline
const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeRenderFailed       ErrorCode = "RENDER_FAILED"
	ErrCodeRenderTimeout      ErrorCode = "RENDER_TIMEOUT"
	ErrCodeNoPrinterAvailable ErrorCode = "NO_PRINTER_AVAILABLE"
	ErrCodeHelperNotFound     ErrorCode = "HELPER_NOT_FOUND"
	ErrCodeDispatchFailed     ErrorCode = "DISPATCH_FAILED"
	ErrCodeCleanupFailed      ErrorCode = "CLEANUP_FAILED"
)

// Error is the error type returned by every stage of the print pipeline.
// Two errors are considered equal by errors.Is when their codes match.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a print error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new print pipeline error
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinel errors for use with errors.Is
var (
	ErrInvalidInput       = NewError(ErrCodeInvalidInput, "invalid input", nil)
	ErrRenderFailed       = NewError(ErrCodeRenderFailed, "PDF rendering failed", nil)
	ErrRenderTimeout      = NewError(ErrCodeRenderTimeout, "PDF rendering timed out", nil)
	ErrNoPrinterAvailable = NewError(ErrCodeNoPrinterAvailable, "no printer available", nil)
	ErrHelperNotFound     = NewError(ErrCodeHelperNotFound, "print helper not found", nil)
	ErrDispatchFailed     = NewError(ErrCodeDispatchFailed, "all delivery methods failed", nil)
)

// RootCause returns the innermost error message, or the error itself when
// it carries no cause. Used for the "error" detail shown to callers.
func RootCause(err error) string {
	if err == nil {
		return ""
	}
	for {
		pe, ok := err.(*Error)
		if !ok || pe.Cause == nil {
			return err.Error()
		}
		err = pe.Cause
	}
}
