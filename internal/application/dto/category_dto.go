package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
// CommissionRate nil = la categoría no cobra comisión directa.
type CategoryRequest struct {
	Name           string           `json:"name" validate:"required,min=1,max=100"`
	Code           string           `json:"code" validate:"omitempty,max=50"`
	CommissionRate *decimal.Decimal `json:"commission_rate"` // fracción en (0,1]
}

// SubCategoryRequest entrada para crear o actualizar una subcategoría.
type SubCategoryRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=100"`
	CommissionRate decimal.Decimal `json:"commission_rate"` // fracción en (0,1]
}

// CategoryResponse salida de una categoría con sus subcategorías ordenadas por nombre.
type CategoryResponse struct {
	ID             string                `json:"id"`
	Code           string                `json:"code,omitempty"`
	Name           string                `json:"name"`
	CommissionRate *decimal.Decimal      `json:"commission_rate"`
	SubCategories  []SubCategoryResponse `json:"subcategories"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// SubCategoryResponse salida de una subcategoría.
type SubCategoryResponse struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CommissionableTargetDTO destino contra el que un empleado puede registrar ventas.
type CommissionableTargetDTO struct {
	TargetKind      string          `json:"target_kind"` // category | subcategory
	TargetID        string          `json:"target_id"`
	CategoryName    string          `json:"category_name"`
	SubCategoryName string          `json:"subcategory_name,omitempty"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
}
