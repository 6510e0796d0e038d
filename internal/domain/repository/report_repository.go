package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UserTotals resultado crudo de ventas agregadas por usuario.
type UserTotals struct {
	UserID          string
	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
}

// CategoryTotals resultado crudo de ventas agregadas por categoría de agregación.
type CategoryTotals struct {
	CategoryID   string
	CategoryName string
	TotalSales   decimal.Decimal
}

// SalesSummary totales de un usuario en un período.
type SalesSummary struct {
	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
	SaleCount       int
}

// ReportRepository define las consultas de solo lectura para rankings del dashboard.
// Sin filas devuelve listas vacías y totales en cero, nunca error.
type ReportRepository interface {
	// ── Métodos del Dashboard ─────────────────────────────────────────────────

	// TotalsByUser agrega las ventas con fecha >= since por usuario (sin ordenar ni truncar).
	TotalsByUser(ctx context.Context, since time.Time) ([]UserTotals, error)
	// TotalsByCategory agrega las ventas con fecha >= since por categoría de agregación.
	TotalsByCategory(ctx context.Context, since time.Time) ([]CategoryTotals, error)
	// SummaryByUser suma las ventas de un usuario con fecha >= since.
	SummaryByUser(ctx context.Context, userID string, since time.Time) (SalesSummary, error)
}
