// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler normalizes errors at the HTTP edge and logs them consistently.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Normalize ensures we always have a StandardError.
func (h *ErrorHandler) Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HandleRequestError logs a failed request and returns the status code and a
// client-safe payload. Internal details stay in the log, never in the body.
func (h *ErrorHandler) HandleRequestError(requestID string, err error) (int, map[string]interface{}) {
	stdErr := h.Normalize(err)

	h.logger.Error("request failed", map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return HTTPStatus(stdErr.Code), map[string]interface{}{
		"error":      "We couldn't find your perfect spot this time. Mind trying again?",
		"code":       string(stdErr.Code),
		"request_id": requestID,
	}
}
