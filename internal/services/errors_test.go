package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("x: %w", ErrInvalidRequest), "invalid_request"},
		{fmt.Errorf("sender 3: %w", ErrNotFound), "not_found"},
		{fmt.Errorf("a: %w", fmt.Errorf("b: %w", ErrInsufficientFunds)), "insufficient_funds"},
		{ErrUnavailable, "unavailable"},
		{ErrTimeout, "timeout"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("syntax error at or near"), "internal"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
