package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/api"
	"github.com/baharkarakas/bank-ledger/internal/cache"
	"github.com/baharkarakas/bank-ledger/internal/config"
	"github.com/baharkarakas/bank-ledger/internal/db"
	"github.com/baharkarakas/bank-ledger/internal/logger"
	"github.com/baharkarakas/bank-ledger/internal/metrics"
	"github.com/baharkarakas/bank-ledger/internal/models"
	"github.com/baharkarakas/bank-ledger/internal/repository/postgres"
	"github.com/baharkarakas/bank-ledger/internal/services"
	"github.com/baharkarakas/bank-ledger/internal/worker"
)

const auditQueueSize = 256

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("exit", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	metrics.Init()
	metrics.RegisterPool(pool)

	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}
	c := cache.New(rdb, log)

	repos := postgres.NewRepositories(pool, cfg.AcquireTimeout)
	wp := worker.NewPool(cfg.AuditWorkers, auditQueueSize, log)

	txnSvc := services.NewTransactionService(
		repos.Ledger,
		repos.Transactions,
		repos.AuditLogs,
		wp,
		cache.NewView[models.Transaction](c, "transactions", cfg.CacheTTL),
		log,
	)
	dirSvc := services.NewDirectoryService(
		repos.Users,
		repos.Accounts,
		repos.Projects,
		cache.NewView[[]models.Project](c, "projects", cfg.CacheTTL),
	)

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterDeps{
			Cfg:          cfg,
			Log:          log,
			Transactions: txnSvc,
			Directory:    dirSvc,
			Ping:         repos.Ping,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("env", cfg.Env),
			zap.Int32("db_max_conns", cfg.DBMaxConns),
			zap.Bool("cache", c.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	// In-flight audit writes still need the pool.
	wp.Stop()
	return nil
}
