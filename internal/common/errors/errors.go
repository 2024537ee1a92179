// Package errors provides standardized error handling for the recommendation pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeNoResults      ErrorCode = "NO_RESULTS"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCandidateQueryFailed     ErrorCode = "CANDIDATE_QUERY_FAILED"
	ErrCodeCandidateQueryTimeout    ErrorCode = "CANDIDATE_QUERY_TIMEOUT"
	ErrCodeQueryLogFailed           ErrorCode = "QUERY_LOG_FAILED"

	ErrCodeIntentParsingFailed ErrorCode = "INTENT_PARSING_FAILED"
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMCallFailed       ErrorCode = "LLM_CALL_FAILED"
	ErrCodeLLMParseFailed      ErrorCode = "LLM_PARSE_FAILED"

	ErrCodePlacesTimeout    ErrorCode = "PLACES_TIMEOUT"
	ErrCodePlacesCallFailed ErrorCode = "PLACES_CALL_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid recommendation request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoResultsError signals an empty candidate window after relaxation.
func NewNoResultsError(occasion, area string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoResults,
		Message:   "No candidates matched the request",
		Details:   fmt.Sprintf("occasion: %s, area: %s", occasion, area),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateQueryFailedError creates a retryable candidate read error.
func NewCandidateQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateQueryFailed,
		Message:   "Candidate query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateQueryTimeoutError creates a retryable candidate read timeout error.
func NewCandidateQueryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateQueryTimeout,
		Message:   "Candidate query timeout",
		Details:   "candidate read exceeded its deadline",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryLogFailedError creates a non-retryable query log error. Logging the
// query outcome must never fail the request, so callers only record it.
func NewQueryLogFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryLogFailed,
		Message:   "Query outcome logging failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentParsingFailedError creates a non-retryable intent extraction error.
// The pipeline proceeds without intent rather than retrying.
func NewIntentParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentParsingFailed,
		Message:   "Intent extraction error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a generative-call timeout error. Not retryable at
// the request level: the fallback synthesis path takes over.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Generative call timeout",
		Details:   "call exceeded its deadline",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMCallFailedError creates a generative-call transport error.
func NewLLMCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMCallFailed,
		Message:   "Generative call error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMParseFailedError signals unusable generative output after all
// recovery passes.
func NewLLMParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMParseFailed,
		Message:   "Generative output parse error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlacesTimeoutError creates a metadata lookup timeout error. The request
// proceeds without metadata.
func NewPlacesTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodePlacesTimeout,
		Message:   "Place metadata lookup timeout",
		Details:   "lookup exceeded its budget",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlacesCallFailedError creates a metadata lookup error.
func NewPlacesCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePlacesCallFailed,
		Message:   "Place metadata lookup error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache backend error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Response cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// HTTPStatus maps an error code to the HTTP status returned by the edge.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return 400
	case ErrCodeNoResults:
		return 200 // no-results is a normal response, not a failure
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeCandidateQueryFailed,
		ErrCodeCandidateQueryTimeout,
		ErrCodeCacheUnavailable:
		return 503
	default:
		return 500
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "INTENT"):
		return "AI"
	case strings.Contains(codeStr, "PLACES"):
		return "METADATA"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
