package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-ledger/internal/models"
	repo "github.com/baharkarakas/bank-ledger/internal/repository"
	"github.com/baharkarakas/bank-ledger/internal/services"
)

type ledger struct{ *store }

// WithTx runs fn inside one READ COMMITTED transaction on a dedicated
// connection. Balance rows are serialised by the FOR UPDATE locks taken in
// LockBalances, not by the isolation level.
func (l *ledger) WithTx(ctx context.Context, fn func(repo.LedgerTx) error) error {
	conn, err := l.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return translate(err)
	}
	rollback := func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }
	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		rollback()
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err)
	}
	return nil
}

type ledgerTx struct{ tx pgx.Tx }

// LockBalances takes the row locks in user_id order so two transfers in
// opposite directions between the same users cannot deadlock.
func (t *ledgerTx) LockBalances(ctx context.Context, userIDs ...int64) (map[int64]decimal.Decimal, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT user_id, balance
		   FROM users
		  WHERE user_id = ANY($1)
		  ORDER BY user_id
		    FOR UPDATE`,
		userIDs,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make(map[int64]decimal.Decimal, len(userIDs))
	for rows.Next() {
		var id int64
		var bal decimal.Decimal
		if err := rows.Scan(&id, &bal); err != nil {
			return nil, translate(err)
		}
		out[id] = bal
	}
	return out, translate(rows.Err())
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, n repo.NewTransaction) (models.Transaction, error) {
	var rec models.Transaction
	err := t.tx.QueryRow(ctx,
		`INSERT INTO transactions (date, time, sender_id, recipient_id, amount, description)
		 VALUES (CURRENT_DATE, LOCALTIME(0), $1, $2, $3::numeric, $4)
		 RETURNING transaction_id, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI:SS'),
		           sender_id, recipient_id, amount, description, created_at`,
		n.SenderID, n.RecipientID, n.Amount.String(), n.Description,
	).Scan(&rec.ID, &rec.Date, &rec.Time, &rec.SenderID, &rec.RecipientID, &rec.Amount,
		&rec.Description, &rec.CreatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", translate(err))
	}
	return rec, nil
}

func (t *ledgerTx) AddToBalance(ctx context.Context, userID int64, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users
		    SET balance = balance + $2::numeric,
		        updated_at = now()
		  WHERE user_id = $1`,
		userID, delta.String(),
	)
	if err != nil {
		return fmt.Errorf("update balance of user %d: %w", userID, translate(err))
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update balance of user %d: %w", userID, services.ErrNotFound)
	}
	return nil
}
