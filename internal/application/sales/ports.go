package sales

import (
	"context"

	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// RateResolver resuelve la tasa vigente de un destino en el momento del registro.
// Lo implementa *taxonomy.RateResolver.
type RateResolver interface {
	ResolveRate(ctx context.Context, target entity.SaleTarget) (*taxonomy.Resolution, error)
}

// UserFinder colaborador de identidad: resuelve el usuario que registra la venta.
// Devuelve (nil, nil) si no existe.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
