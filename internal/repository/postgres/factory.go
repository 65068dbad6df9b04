package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/bank-ledger/internal/repository"
)

type Repositories struct {
	Users        repo.Users
	Accounts     repo.Accounts
	Projects     repo.Projects
	Transactions repo.Transactions
	Ledger       repo.Ledger
	AuditLogs    repo.AuditLogs

	s *store
}

func NewRepositories(pool *pgxpool.Pool, acquireTimeout time.Duration) Repositories {
	s := &store{pool: pool, acquireTimeout: acquireTimeout}
	return Repositories{
		Users:        &usersRepo{s},
		Accounts:     &accountsRepo{s},
		Projects:     &projectsRepo{s},
		Transactions: &transactionsRepo{s},
		Ledger:       &ledger{s},
		AuditLogs:    &auditLogsRepo{s},
		s:            s,
	}
}

// Ping checks that a connection can be acquired and used.
func (r Repositories) Ping(ctx context.Context) error {
	return r.s.withConn(ctx, func(c *pgxpool.Conn) error { return c.Ping(ctx) })
}
