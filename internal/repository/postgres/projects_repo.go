package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

type projectsRepo struct{ *store }

func (r *projectsRepo) List(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := r.withConn(ctx, func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx,
			`SELECT project_id, name, description, status, created_at
			   FROM projects
			  ORDER BY project_id`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Project, error) {
			var p models.Project
			err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedAt)
			return p, err
		})
		return err
	})
	return out, err
}
