package services

import (
	"context"
	"errors"
)

// Error taxonomy shared by the service layer. Lower layers wrap these with
// fmt.Errorf("...: %w", ...); the HTTP layer maps them with errors.Is.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("storage unavailable")
	ErrTimeout           = errors.New("storage timeout")
)

// Classify returns a stable label for err, used in metrics and audit rows.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}
