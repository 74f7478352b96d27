package errors

import "fmt"

// ErrorCode classifies a Docsmith error.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // bad input from user or config
	ErrPrecondition     ErrorCode = "PRECONDITION"      // run-level failure, aborts before any file is processed
	ErrPathEscape       ErrorCode = "PATH_ESCAPE"       // resolved output path leaves the output root
	ErrUnsupportedType  ErrorCode = "UNSUPPORTED_TYPE"  // extension not handled by any backend
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED" // backend error or quality-gate rejection
	ErrIO               ErrorCode = "IO"                // read/write failure on source or output
	ErrInternal         ErrorCode = "INTERNAL"          // unexpected failure
)

// DocsmithError is a structured error with a code and optional details.
type DocsmithError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DocsmithError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *DocsmithError {
	return &DocsmithError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewPrecondition creates a run-level precondition error.
func NewPrecondition(msg string) *DocsmithError {
	return &DocsmithError{
		Code:    ErrPrecondition,
		Message: msg,
	}
}

// NewPathEscape creates an error for an output path escaping the output root.
func NewPathEscape(path, root string) *DocsmithError {
	return &DocsmithError{
		Code:    ErrPathEscape,
		Message: fmt.Sprintf("output path escapes output root: %s", path),
		Details: map[string]any{"path": path, "root": root},
	}
}

// NewUnsupportedType creates an error for a file no backend can extract.
func NewUnsupportedType(ext string) *DocsmithError {
	return &DocsmithError{
		Code:    ErrUnsupportedType,
		Message: fmt.Sprintf("unsupported file type: %s", ext),
		Details: map[string]any{"extension": ext},
	}
}

// NewExtractionFailed creates an error for a failed or rejected extraction.
func NewExtractionFailed(path, reason string) *DocsmithError {
	return &DocsmithError{
		Code:    ErrExtractionFailed,
		Message: reason,
		Details: map[string]any{"path": path},
	}
}

// NewIO wraps a filesystem error.
func NewIO(err error) *DocsmithError {
	msg := "i/o error"
	if err != nil {
		msg = err.Error()
	}
	return &DocsmithError{
		Code:    ErrIO,
		Message: msg,
	}
}

// NewInternal wraps an unexpected error.
func NewInternal(err error) *DocsmithError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DocsmithError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is a DocsmithError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DocsmithError); ok {
		return dErr.Code == code
	}
	return false
}
