package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

type usersRepo struct{ *store }

// List never selects the ssn column.
func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var out []models.User
	err := r.withConn(ctx, func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx,
			`SELECT user_id, name, address, balance, email, phone, created_at, updated_at
			   FROM users
			  ORDER BY user_id
			  LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
			var u models.User
			err := row.Scan(&u.ID, &u.Name, &u.Address, &u.Balance, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
			return u, err
		})
		return err
	})
	return out, err
}

func (r *usersRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM users`)
}
