package repository

import (
	"context"
	"time"

	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs resuelve varios usuarios en una sola consulta; los ids inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// List devuelve todos los usuarios ordenados por nombre y luego email.
	List(ctx context.Context) ([]*entity.User, error)
}
