package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
)

// Health reports 200 while ping succeeds and 503 otherwise.
func Health(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable", "Service temporarily unavailable", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
