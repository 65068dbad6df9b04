package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/services"
)

// store is the pool handle shared by every repository. All connections are
// acquired under acquireTimeout so an exhausted pool fails fast.
type store struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

func (s *store) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.pool.Acquire(actx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire connection within %s: %w", s.acquireTimeout, services.ErrUnavailable)
		}
		return nil, translate(err)
	}
	return conn, nil
}

// withConn runs fn on a pooled connection and translates its error.
func (s *store) withConn(ctx context.Context, fn func(*pgxpool.Conn) error) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return translate(fn(conn))
}

func (s *store) count(ctx context.Context, query string) (int, error) {
	var n int
	err := s.withConn(ctx, func(c *pgxpool.Conn) error {
		return c.QueryRow(ctx, query).Scan(&n)
	})
	return n, err
}

// translate maps driver failures onto the service error taxonomy. Errors it
// does not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, services.ErrUnavailable) || errors.Is(err, services.ErrTimeout) ||
		errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrInvalidRequest) {
		return err
	}

	var connErr *pgconn.ConnectError
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %w", services.ErrNotFound, err)
	case errors.As(err, &connErr):
		return fmt.Errorf("%w: %w", services.ErrUnavailable, err)
	case errors.As(err, &pgErr) && unavailableCode(pgErr.Code):
		return fmt.Errorf("%w: %w", services.ErrUnavailable, err)
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "22"):
		// data exception: the client sent a value the column cannot hold
		return fmt.Errorf("%w: %w", services.ErrInvalidRequest, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), pgconn.Timeout(err):
		return fmt.Errorf("%w: %w", services.ErrTimeout, err)
	}
	return err
}

// unavailableCode reports SQLSTATEs that mean the server cannot take work:
// connection exceptions (08), too_many_connections and operator shutdowns.
func unavailableCode(code string) bool {
	return strings.HasPrefix(code, "08") || code == "53300" || code == "57P01" || code == "57P02" || code == "57P03"
}
