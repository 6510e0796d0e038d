package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubCategory pertenece a una Category y siempre tiene tasa propia en (0,1].
type SubCategory struct {
	ID             string
	CategoryID     string
	Name           string // único dentro de la categoría padre
	CommissionRate decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
