package errors

import (
	stderrors "errors"
	"fmt"
)

// SeqError is the structured error type for seqmatch.
// It carries enough context for logging, JSON output and CLI hints.
type SeqError struct {
	// Code is the unique error code (e.g., "ERR_402_INVALID_ALPHABET").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *SeqError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SeqError) Unwrap() error {
	return e.Cause
}

// Is matches another SeqError by code, so errors.Is(err, New(code, "", nil))
// works as a code check.
func (e *SeqError) Is(target error) bool {
	if t, ok := target.(*SeqError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *SeqError) WithDetail(key, value string) *SeqError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *SeqError) WithSuggestion(suggestion string) *SeqError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SeqError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *SeqError {
	return &SeqError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a SeqError from an existing error.
// The error's message becomes the SeqError message.
func Wrap(code string, err error) *SeqError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SeqError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *SeqError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *SeqError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *SeqError {
	return New(ErrCodeInternal, message, cause)
}

// As returns the first SeqError in err's chain.
func As(err error) (*SeqError, bool) {
	var se *SeqError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retryable SeqError.
func IsRetryable(err error) bool {
	se, ok := As(err)
	return ok && se.Retryable
}

// IsFatal reports whether err carries a SeqError of fatal severity.
func IsFatal(err error) bool {
	se, ok := As(err)
	return ok && se.Severity == SeverityFatal
}

// GetCode extracts the error code from err's chain.
// Returns empty string if there is no SeqError.
func GetCode(err error) string {
	if se, ok := As(err); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from err's chain.
// Returns empty string if there is no SeqError.
func GetCategory(err error) Category {
	if se, ok := As(err); ok {
		return se.Category
	}
	return ""
}
