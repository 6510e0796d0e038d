package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetKind distingue contra qué nodo de la taxonomía se registró la venta.
type TargetKind string

const (
	TargetCategory    TargetKind = "category"
	TargetSubCategory TargetKind = "subcategory"
)

// SaleTarget referencia a una categoría (venta directa) o a una subcategoría.
type SaleTarget struct {
	Kind TargetKind
	ID   string
}

// CategoryTarget construye un destino de venta directa sobre una categoría.
func CategoryTarget(id string) SaleTarget {
	return SaleTarget{Kind: TargetCategory, ID: id}
}

// SubCategoryTarget construye un destino de venta sobre una subcategoría.
func SubCategoryTarget(id string) SaleTarget {
	return SaleTarget{Kind: TargetSubCategory, ID: id}
}

// Valid comprueba que el tipo sea conocido y haya id.
func (t SaleTarget) Valid() bool {
	return (t.Kind == TargetCategory || t.Kind == TargetSubCategory) && t.ID != ""
}

// Medios de pago por defecto.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
)

// Sale es una venta inmutable: la comisión se congela al registrarla.
type Sale struct {
	ID             string
	UserID         string
	EmployeeID     string // copia desnormalizada del usuario que registró la venta
	Target         SaleTarget
	CategoryID     string // categoría a la que se agrega la venta (directa o padre de la subcategoría)
	Amount         decimal.Decimal
	CommissionRate decimal.Decimal
	Commission     decimal.Decimal
	PaymentType    string
	TrackingNumber string
	Description    string
	CreatedAt      time.Time // UTC
}

// SubCategoryID devuelve el id de subcategoría o "" para ventas directas.
func (s *Sale) SubCategoryID() string {
	if s.Target.Kind == TargetSubCategory {
		return s.Target.ID
	}
	return ""
}
