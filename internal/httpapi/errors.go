package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

// Error codes of the response envelope.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuth            = "AUTH_ERROR"
	CodeDuplicate       = "DUPLICATE_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeDatabase        = "DATABASE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeRateLimit       = "RATE_LIMIT_ERROR"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

const (
	msgDatabaseError   = "Internal database error"
	msgUnexpectedError = "An unexpected error occurred"
)

type errorEnvelope struct {
	Status  string         `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details []apperr.Issue `json:"details,omitempty"`
}

// ErrorHandler converts any error reaching the HTTP boundary into the error
// envelope and logs it with the request method and path.
type ErrorHandler struct {
	logger     logger.Logger
	production bool
}

func NewErrorHandler(log logger.Logger, production bool) *ErrorHandler {
	return &ErrorHandler{logger: log, production: production}
}

// Write renders err. It must be called before anything else is written to w.
func (h *ErrorHandler) Write(w http.ResponseWriter, r *http.Request, err error) {
	status, body := h.envelope(err)

	fields := map[string]interface{}{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"code":       body.Code,
		"request_id": RequestIDFromContext(r.Context()),
	}
	var pe *panicError
	if !h.production && errors.As(err, &pe) {
		fields["stack"] = string(pe.stack)
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorWithContext(r.Context(), "Error processing request", err, fields)
	} else {
		h.logger.WarnWithContext(r.Context(), "Error processing request", err, fields)
	}

	writeJSON(w, status, body)
}

// panicError is a recovered handler panic with the stack of the goroutine
// that panicked.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (h *ErrorHandler) envelope(err error) (int, errorEnvelope) {
	body := errorEnvelope{Status: statusError}

	appErr, ok := apperr.As(err)
	if !ok {
		body.Code = CodeInternal
		body.Message = h.unexpectedMessage(err)
		return http.StatusInternalServerError, body
	}

	body.Message = appErr.Message

	switch appErr.Kind {
	case apperr.KindValidation:
		body.Code = CodeValidation
		body.Details = appErr.Issues
		return http.StatusBadRequest, body
	case apperr.KindAuth:
		body.Code = CodeAuth
		return http.StatusUnauthorized, body
	case apperr.KindConflict:
		body.Code = CodeDuplicate
		return http.StatusConflict, body
	case apperr.KindNotFound:
		body.Code = CodeNotFound
		return http.StatusNotFound, body
	case apperr.KindRateLimited:
		body.Code = CodeRateLimit
		return http.StatusTooManyRequests, body
	case apperr.KindPayloadTooLarge:
		body.Code = CodePayloadTooLarge
		return http.StatusRequestEntityTooLarge, body
	case apperr.KindPersistence:
		body.Code = CodeDatabase
		body.Message = msgDatabaseError
		return http.StatusInternalServerError, body
	}

	body.Code = CodeInternal
	body.Message = h.unexpectedMessage(err)
	return http.StatusInternalServerError, body
}

func (h *ErrorHandler) unexpectedMessage(err error) string {
	if h.production {
		return msgUnexpectedError
	}
	return err.Error()
}

// requestBodyError classifies a failure to read or decode a request body.
func requestBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.Wrap(apperr.KindPayloadTooLarge, "Request body is too large", err)
	}
	return err
}
