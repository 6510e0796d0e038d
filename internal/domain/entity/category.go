package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category representa una categoría comisionable de primer nivel.
// Una categoría tiene tasa propia o subcategorías con tasa, nunca ambas.
type Category struct {
	ID             string
	Code           string           // código externo opcional
	Name           string           // único sin distinguir mayúsculas
	CommissionRate *decimal.Decimal // nil cuando la tasa la aportan las subcategorías
	SubCategories  []SubCategory    // ordenadas por nombre
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRate indica si la categoría cobra comisión directa.
func (c *Category) HasRate() bool {
	return c.CommissionRate != nil
}

// ClearRate elimina la tasa directa (al recibir la primera subcategoría).
func (c *Category) ClearRate() {
	c.CommissionRate = nil
}
