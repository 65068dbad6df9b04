package repository

import (
	"context"

	"github.com/baharkarakas/bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type Users interface {
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

type Accounts interface {
	List(ctx context.Context, limit, offset int) ([]models.Account, error)
	Count(ctx context.Context) (int, error)
}

type Projects interface {
	List(ctx context.Context) ([]models.Project, error)
}

type Transactions interface {
	List(ctx context.Context, limit, offset int) ([]models.Transaction, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (models.Transaction, error)
}

// NewTransaction is the insert payload of a transfer; date and time are
// assigned by the store at insert.
type NewTransaction struct {
	SenderID    int64
	RecipientID int64
	Amount      decimal.Decimal
	Description *string
}

// LedgerTx is the set of reads and writes a transfer performs inside one
// atomic unit. Implementations must hold row locks on every balance returned
// by LockBalances until the unit commits or rolls back.
type LedgerTx interface {
	// LockBalances locks and returns the balances of the given users, keyed
	// by user id. Absent users are missing from the map.
	LockBalances(ctx context.Context, userIDs ...int64) (map[int64]decimal.Decimal, error)
	InsertTransaction(ctx context.Context, t NewTransaction) (models.Transaction, error)
	AddToBalance(ctx context.Context, userID int64, delta decimal.Decimal) error
}

// Ledger runs fn as one atomic unit: a nil return commits, anything else
// (including a panic) rolls back and the error is returned unchanged.
type Ledger interface {
	WithTx(ctx context.Context, fn func(LedgerTx) error) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
