package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-ledger/internal/models"
	repo "github.com/baharkarakas/bank-ledger/internal/repository"
)

// memLedger is an in-memory store with all-or-nothing units of work. A unit
// holds mu for its whole duration, which stands in for row locks.
type memLedger struct {
	mu       sync.Mutex
	balances map[int64]decimal.Decimal
	names    map[int64]string
	txns     []models.Transaction
	nextID   int64

	// failAfterInsert makes the sender balance update fail, after the
	// record has been inserted within the unit.
	failAfterInsert error
}

func newMemLedger(balances map[int64]string) *memLedger {
	l := &memLedger{balances: map[int64]decimal.Decimal{}, names: map[int64]string{}, nextID: 1}
	for id, b := range balances {
		l.balances[id] = decimal.RequireFromString(b)
	}
	return l
}

func (l *memLedger) WithTx(ctx context.Context, fn func(repo.LedgerTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	work := &memTx{
		l:        l,
		balances: make(map[int64]decimal.Decimal, len(l.balances)),
		nextID:   l.nextID,
	}
	for k, v := range l.balances {
		work.balances[k] = v
	}
	if err := fn(work); err != nil {
		return err
	}
	l.balances = work.balances
	l.txns = append(l.txns, work.inserted...)
	l.nextID = work.nextID
	return nil
}

func (l *memLedger) balance(id int64) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id]
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txns)
}

type memTx struct {
	l        *memLedger
	balances map[int64]decimal.Decimal
	inserted []models.Transaction
	nextID   int64
}

func (t *memTx) LockBalances(_ context.Context, ids ...int64) (map[int64]decimal.Decimal, error) {
	out := map[int64]decimal.Decimal{}
	for _, id := range ids {
		if b, ok := t.balances[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (t *memTx) InsertTransaction(_ context.Context, n repo.NewTransaction) (models.Transaction, error) {
	now := time.Now()
	rec := models.Transaction{
		ID:          t.nextID,
		Date:        now.Format("2006-01-02"),
		Time:        now.Format("15:04:05"),
		SenderID:    n.SenderID,
		RecipientID: n.RecipientID,
		Amount:      n.Amount,
		Description: n.Description,
		CreatedAt:   now,
	}
	t.nextID++
	t.inserted = append(t.inserted, rec)
	return rec, nil
}

func (t *memTx) AddToBalance(_ context.Context, id int64, delta decimal.Decimal) error {
	if t.l.failAfterInsert != nil {
		return t.l.failAfterInsert
	}
	b, ok := t.balances[id]
	if !ok {
		return ErrNotFound
	}
	t.balances[id] = b.Add(delta)
	return nil
}

// listRepo serves the read-side interfaces from fixed slices.
type listRepo[T any] struct {
	rows []T
	err  error
	hits int
}

func (r *listRepo[T]) List(_ context.Context, limit, offset int) ([]T, error) {
	r.hits++
	if r.err != nil {
		return nil, r.err
	}
	if offset >= len(r.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.rows) {
		end = len(r.rows)
	}
	return r.rows[offset:end], nil
}

func (r *listRepo[T]) Count(context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return len(r.rows), nil
}

type txnRepo struct {
	listRepo[models.Transaction]
}

func (r *txnRepo) GetByID(_ context.Context, id int64) (models.Transaction, error) {
	for _, t := range r.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, ErrNotFound
}

type projectRepo struct {
	rows  []models.Project
	calls int
}

func (r *projectRepo) List(context.Context) ([]models.Project, error) {
	r.calls++
	return r.rows, nil
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *auditRecorder) Create(_ context.Context, l models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, l)
	return nil
}

var errDiskFull = errors.New("disk full")
