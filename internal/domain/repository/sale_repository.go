package repository

import (
	"context"
	"time"

	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// SaleFilter filtros opcionales de consulta de ventas. Los campos vacíos no filtran.
type SaleFilter struct {
	UserID        string
	CategoryID    string    // categoría de agregación (directa o padre)
	SubCategoryID string
	From          time.Time // inclusivo; cero = sin límite
	To            time.Time // exclusivo; cero = sin límite
	// Search busca sin distinguir mayúsculas en nombre de subcategoría, nombre de categoría y descripción.
	Search string
}

// SaleRecord es una venta con los nombres de su taxonomía resueltos en la misma lectura.
type SaleRecord struct {
	entity.Sale
	CategoryName    string
	SubCategoryName string // vacío en ventas directas
}

// SaleRepository define el puerto de persistencia del libro de ventas.
type SaleRepository interface {
	// Insert persiste la venta y su auditoría de forma atómica.
	Insert(ctx context.Context, sale *entity.Sale, audit *entity.Audit) error
	// Query devuelve las ventas que cumplen el filtro, más recientes primero.
	Query(ctx context.Context, filter SaleFilter) ([]SaleRecord, error)
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
