package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("open seq.fa: no such file")

	// When: wrapping with SeqError
	seqErr := New(ErrCodeFileNotFound, "sequence file not found: seq.fa", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, seqErr)
	assert.Equal(t, originalErr, errors.Unwrap(seqErr))
	assert.True(t, errors.Is(seqErr, originalErr))
}

func TestSeqError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "alphabet error",
			code:     ErrCodeInvalidAlphabet,
			message:  "pattern contains N",
			expected: "[ERR_402_INVALID_ALPHABET] pattern contains N",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestSeqError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeEmptyInput, "pattern is empty", nil)
	err2 := New(ErrCodeEmptyInput, "sequence is empty", nil)
	other := New(ErrCodeInvalidAlphabet, "bad symbol", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, other))
}

func TestSeqError_Is_ThroughFmtWrap(t *testing.T) {
	// Given: a SeqError wrapped by fmt.Errorf
	inner := New(ErrCodePatternTooLong, "pattern longer than sequence", nil)
	wrapped := fmt.Errorf("compare: %w", inner)

	// Then: code helpers see through the wrap
	assert.True(t, errors.Is(wrapped, New(ErrCodePatternTooLong, "", nil)))
	assert.Equal(t, ErrCodePatternTooLong, GetCode(wrapped))
	assert.Equal(t, CategoryValidation, GetCategory(wrapped))
}

func TestSeqError_WithDetailAndSuggestion(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/data/seq.fa").
		WithDetail("format", "fasta").
		WithSuggestion("Check the --file path")

	assert.Equal(t, "/data/seq.fa", err.Details["path"])
	assert.Equal(t, "fasta", err.Details["format"])
	assert.Equal(t, "Check the --file path", err.Suggestion)
}

func TestSeqError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeHistoryStore, CategoryIO},
		{ErrCodeInvalidAlphabet, CategoryValidation},
		{ErrCodeUnknownAlgorithm, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeIndexFailed, CategoryInternal},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestSeqError_SeverityAndRetryable(t *testing.T) {
	tests := []struct {
		code          string
		wantSeverity  Severity
		wantRetryable bool
	}{
		{ErrCodeFileCorrupt, SeverityFatal, false},
		{ErrCodeStoreBusy, SeverityWarning, true},
		{ErrCodeFileNotFound, SeverityError, false},
		{ErrCodeInvalidInput, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
		})
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("something went wrong")

	seqErr := Wrap(ErrCodeInternal, originalErr)

	require.NotNil(t, seqErr)
	assert.Equal(t, ErrCodeInternal, seqErr.Code)
	assert.Equal(t, "something went wrong", seqErr.Message)
	assert.Equal(t, originalErr, seqErr.Cause)
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestConvenienceConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeConfigInvalid, ConfigError("bad", nil).Code)
	assert.Equal(t, ErrCodeFileNotFound, IOError("missing", nil).Code)
	assert.Equal(t, ErrCodeInvalidInput, ValidationError("bad", nil).Code)
	assert.Equal(t, ErrCodeInternal, InternalError("oops", nil).Code)
}

func TestIsRetryableAndIsFatal(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeStoreBusy, "locked", nil)))
	assert.True(t, IsRetryable(fmt.Errorf("add: %w", New(ErrCodeStoreBusy, "locked", nil))))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))

	assert.True(t, IsFatal(New(ErrCodeFileCorrupt, "bad db", nil)))
	assert.False(t, IsFatal(New(ErrCodeInternal, "oops", nil)))
	assert.False(t, IsFatal(nil))
}

func TestGetCode_NonSeqError(t *testing.T) {
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, GetCategory(errors.New("plain")))
}
