package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
)

func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic",
						zap.Any("err", rec),
						zap.String("request_id", httpx.RequestIDFrom(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
