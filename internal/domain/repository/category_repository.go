package repository

import (
	"context"

	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Los Get* devuelven (nil, nil) cuando no existe el registro y no cargan SubCategories.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error)
	// GetByName busca sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	// List devuelve las categorías por nombre con sus subcategorías cargadas.
	List(ctx context.Context) ([]*entity.Category, error)
}

// SubCategoryRepository define el puerto de persistencia para SubCategory.
type SubCategoryRepository interface {
	Create(ctx context.Context, sub *entity.SubCategory) error
	Update(ctx context.Context, sub *entity.SubCategory) error
	GetByID(ctx context.Context, id string) (*entity.SubCategory, error)
	// GetByName busca dentro de la categoría padre sin distinguir mayúsculas.
	GetByName(ctx context.Context, name, categoryID string) (*entity.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID string) ([]entity.SubCategory, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
