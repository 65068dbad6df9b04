package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, reusing a well-formed incoming one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(httpx.WithRequestID(r.Context(), id)))
	})
}
