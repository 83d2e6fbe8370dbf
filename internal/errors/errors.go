package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ManifestDirNotFound indicates the registry has no manifest root
	ManifestDirNotFound ErrorCode = "MANIFEST_DIR_NOT_FOUND"
	// TempDirNotFound indicates the registry has no shadow root
	TempDirNotFound ErrorCode = "TEMP_DIR_NOT_FOUND"
	// TempDirFailed indicates the shadow temp directory could not be created
	TempDirFailed ErrorCode = "TEMP_DIR_FAILED"
	// CanonicalizeFailed indicates a path could not be canonicalized
	CanonicalizeFailed ErrorCode = "CANONICALIZE_FAILED"
	// CantExtractProjectName indicates the project name could not be derived
	CantExtractProjectName ErrorCode = "CANT_EXTRACT_PROJECT_NAME"
	// StripPrefixFailed indicates a location is not nested under the expected root
	StripPrefixFailed ErrorCode = "STRIP_PREFIX_FAILED"
	// CopyContentsFailed indicates the selective copy into the shadow tree failed
	CopyContentsFailed ErrorCode = "COPY_CONTENTS_FAILED"
	// SpanFromPathFailed indicates a span could not be rebuilt for the target file
	SpanFromPathFailed ErrorCode = "SPAN_FROM_PATH_FAILED"
	// ManifestFileNotFound indicates no manifest exists in the project directory
	ManifestFileNotFound ErrorCode = "MANIFEST_FILE_NOT_FOUND"
	// ManifestParseFailed indicates the manifest could not be parsed
	ManifestParseFailed ErrorCode = "MANIFEST_PARSE_FAILED"
	// IOError indicates a file could not be read
	IOError ErrorCode = "IO_ERROR"
	// UnableToWriteFile indicates a file could not be written
	UnableToWriteFile ErrorCode = "UNABLE_TO_WRITE_FILE"
	// SessionNotFound indicates the session ledger has no matching entry
	SessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// SyncError represents a shadow-workspace error with code and message
type SyncError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new SyncError
func New(code ErrorCode, message string, cause error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new SyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SyncError {
	return &SyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SyncError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *SyncError) WithDetails(details interface{}) *SyncError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or InternalError for
// errors that did not originate in this module.
func CodeOf(err error) ErrorCode {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
