package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

type accountsRepo struct{ *store }

func (r *accountsRepo) List(ctx context.Context, limit, offset int) ([]models.Account, error) {
	var out []models.Account
	err := r.withConn(ctx, func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx,
			`SELECT a.account_id, a.account_type, a.balance, a.created_at, a.updated_at,
			        u.name AS user_name
			   FROM accounts a
			   JOIN users u ON a.user_id = u.user_id
			  ORDER BY a.account_id
			  LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
			var a models.Account
			err := row.Scan(&a.ID, &a.AccountType, &a.Balance, &a.CreatedAt, &a.UpdatedAt, &a.UserName)
			return a, err
		})
		return err
	})
	return out, err
}

func (r *accountsRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM accounts a JOIN users u ON a.user_id = u.user_id`)
}
