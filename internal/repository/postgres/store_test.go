package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/services"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, services.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), services.ErrNotFound},
		{"connection failure", &pgconn.PgError{Code: "08006"}, services.ErrUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, services.ErrUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, services.ErrUnavailable},
		{"crash shutdown", &pgconn.PgError{Code: "57P02"}, services.ErrUnavailable},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, services.ErrUnavailable},
		{"nul byte in text", &pgconn.PgError{Code: "22021"}, services.ErrInvalidRequest},
		{"numeric overflow", &pgconn.PgError{Code: "22003"}, services.ErrInvalidRequest},
		{"deadline", context.DeadlineExceeded, services.ErrTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), services.ErrTimeout},
		{"already classified", fmt.Errorf("acquire: %w", services.ErrUnavailable), services.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("translate(%v) = %v, want %v", tt.err, got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("translate(%v) lost the original error", tt.err)
			}
		})
	}
}

func TestTranslatePassesThroughUnknownErrors(t *testing.T) {
	if translate(nil) != nil {
		t.Error("translate(nil) != nil")
	}
	for _, err := range []error{
		&pgconn.PgError{Code: "23505"},
		&pgconn.PgError{Code: "42P01"},
		errors.New("boom"),
	} {
		if got := translate(err); got != err {
			t.Errorf("translate(%v) = %v, want unchanged", err, got)
		}
	}
}

func newTestStore(t *testing.T, addr string, acquireTimeout time.Duration) *store {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), "postgres://ledger@"+addr+"/ledger?sslmode=disable&connect_timeout=2")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	return &store{pool: pool, acquireTimeout: acquireTimeout}
}

func TestAcquireUnreachableIsUnavailable(t *testing.T) {
	s := newTestStore(t, "127.0.0.1:1", 2*time.Second)
	_, err := s.count(context.Background(), `SELECT 1`)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Errorf("err = %v, want unavailable", err)
	}
}

func TestAcquireTimeoutIsUnavailable(t *testing.T) {
	// Accepts connections and never answers the startup message.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()

	s := newTestStore(t, ln.Addr().String(), 100*time.Millisecond)
	start := time.Now()
	_, err = s.count(context.Background(), `SELECT 1`)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Errorf("err = %v, want unavailable", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("acquire waited %s, want about the acquire timeout", elapsed)
	}
}

func TestAcquireWithCancelledContextIsClassified(t *testing.T) {
	s := newTestStore(t, "127.0.0.1:1", 2*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.withConn(ctx, func(*pgxpool.Conn) error { return nil })
	if !errors.Is(err, services.ErrTimeout) && !errors.Is(err, services.ErrUnavailable) {
		t.Errorf("err = %v, want timeout or unavailable", err)
	}
}
