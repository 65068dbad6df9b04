package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

type transactionsRepo struct{ *store }

const transactionColumns = `t.transaction_id, to_char(t.date, 'YYYY-MM-DD'), to_char(t.time, 'HH24:MI:SS'),
       t.sender_id, t.recipient_id, t.amount, t.description, t.created_at,
       s.name AS sender_name, r.name AS recipient_name`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Time, &t.SenderID, &t.RecipientID, &t.Amount,
		&t.Description, &t.CreatedAt, &t.SenderName, &t.RecipientName)
	return t, err
}

// List returns transactions newest first. transaction_id breaks ties between
// transfers committed within the same second.
func (r *transactionsRepo) List(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.withConn(ctx, func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx,
			`SELECT `+transactionColumns+`
			   FROM transactions t
			   JOIN users s ON t.sender_id = s.user_id
			   JOIN users r ON t.recipient_id = r.user_id
			  ORDER BY t.date DESC, t.time DESC, t.transaction_id DESC
			  LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
			return scanTransaction(row)
		})
		return err
	})
	return out, err
}

func (r *transactionsRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM transactions`)
}

func (r *transactionsRepo) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	var t models.Transaction
	err := r.withConn(ctx, func(c *pgxpool.Conn) error {
		var err error
		t, err = scanTransaction(c.QueryRow(ctx,
			`SELECT `+transactionColumns+`
			   FROM transactions t
			   JOIN users s ON t.sender_id = s.user_id
			   JOIN users r ON t.recipient_id = r.user_id
			  WHERE t.transaction_id = $1`,
			id,
		))
		return err
	})
	return t, err
}
