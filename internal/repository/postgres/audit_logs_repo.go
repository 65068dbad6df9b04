package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

type auditLogsRepo struct{ *store }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	return r.withConn(ctx, func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`INSERT INTO audit_logs(entity_type, entity_id, action, details) VALUES($1,$2,$3,$4)`,
			l.EntityType, l.EntityID, l.Action, l.Details,
		)
		return err
	})
}
