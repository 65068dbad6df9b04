package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/api/handlers"
	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
	"github.com/baharkarakas/bank-ledger/internal/config"
	"github.com/baharkarakas/bank-ledger/internal/metrics"
	"github.com/baharkarakas/bank-ledger/internal/middleware"
)

type RouterDeps struct {
	Cfg          config.Config
	Log          *zap.Logger
	Transactions handlers.Transactions
	Directory    handlers.Directory
	Ping         func(context.Context) error
}

func NewRouter(d RouterDeps) http.Handler {
	errs := httpx.ErrorWriter{Prod: d.Cfg.IsProd(), Log: d.Log}
	txh := handlers.NewTransactionHandler(d.Transactions, errs)
	dir := handlers.NewDirectoryHandler(d.Directory, errs)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.AccessLog(d.Log),
		middleware.Recover(d.Log),
		middleware.HTTPMetrics,
	)
	// CORS wraps the limiter so 429s still carry Access-Control-Allow-Origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{d.Cfg.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(d.Cfg.RateRPS))

	r.Get("/health", handlers.Health(d.Ping))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", dir.Users)
		r.Get("/accounts", dir.Accounts)
		r.Get("/projects", dir.Projects)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", txh.List)
			r.Post("/", txh.Create)
			r.Get("/{id}", txh.Get)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})

	return r
}
