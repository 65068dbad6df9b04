package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/services"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// ErrorWriter is the single place service errors become HTTP responses.
type ErrorWriter struct {
	Prod bool
	Log  *zap.Logger
}

type mapping struct {
	status int
	code   string
	msg    string
}

// Resolve returns the status, code and stable message for err.
func Resolve(err error) (status int, code, msg string) {
	m := resolve(err)
	return m.status, m.code, m.msg
}

func resolve(err error) mapping {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return mapping{http.StatusBadRequest, "invalid_request", "Missing or invalid required fields"}
	case errors.Is(err, services.ErrNotFound):
		return mapping{http.StatusNotFound, "not_found", "Resource not found"}
	case errors.Is(err, services.ErrInsufficientFunds):
		return mapping{http.StatusConflict, "insufficient_funds", "Sender has insufficient balance"}
	case errors.Is(err, services.ErrUnavailable):
		return mapping{http.StatusServiceUnavailable, "unavailable", "Service temporarily unavailable"}
	case errors.Is(err, services.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return mapping{http.StatusServiceUnavailable, "timeout", "Request timed out"}
	default:
		return mapping{http.StatusInternalServerError, "internal_error", "Internal server error"}
	}
}

// Write logs server-side failures with their full chain and writes the
// mapped response. The raw error text is exposed as details only outside prod.
func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	m := resolve(err)
	if m.status >= 500 && e.Log != nil {
		e.Log.Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", m.code),
			zap.Error(err),
		)
	}
	var details interface{}
	if !e.Prod {
		details = err.Error()
	}
	WriteError(w, m.status, m.code, m.msg, details)
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
