package repository

import (
	"context"

	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// AuditRepository define el puerto de la bitácora (append-only).
type AuditRepository interface {
	Append(ctx context.Context, audit *entity.Audit) error
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.Audit, error)
	// LastByActorAction devuelve la última entrada de un actor con esa acción, o nil.
	LastByActorAction(ctx context.Context, performedBy, action string) (*entity.Audit, error)
}
