package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora append-only sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta una entrada. No existe UPDATE ni DELETE sobre audits.
func (r *AuditRepo) Append(ctx context.Context, a *entity.Audit) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO audits (id, action, performed_by, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Action, a.PerformedBy, a.CreatedAt,
	)
	return storeErr("insert audit", err)
}

// List entradas más recientes primero con paginación.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, action, performed_by, created_at FROM audits ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, storeErr("list audits", err)
	}
	defer rows.Close()
	list := []*entity.Audit{}
	for rows.Next() {
		var a entity.Audit
		if err := rows.Scan(&a.ID, &a.Action, &a.PerformedBy, &a.CreatedAt); err != nil {
			return nil, storeErr("scan audit", err)
		}
		list = append(list, &a)
	}
	return list, storeErr("list audits", rows.Err())
}

// LastByActorAction última entrada del actor con esa acción. nil si no hay.
func (r *AuditRepo) LastByActorAction(ctx context.Context, performedBy, action string) (*entity.Audit, error) {
	var a entity.Audit
	err := r.q.QueryRow(ctx,
		`SELECT id, action, performed_by, created_at FROM audits
		 WHERE performed_by = $1 AND action = $2 ORDER BY created_at DESC LIMIT 1`,
		performedBy, action,
	).Scan(&a.ID, &a.Action, &a.PerformedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("last audit", err)
	}
	return &a, nil
}
