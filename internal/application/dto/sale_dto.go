package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogSaleRequest entrada de POST /api/sales. El usuario se toma del token.
type LogSaleRequest struct {
	TargetKind     string          `json:"target_kind" validate:"required,oneof=category subcategory"`
	TargetID       string          `json:"target_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentType    string          `json:"payment_type" validate:"required"`
	TrackingNumber string          `json:"tracking_number"`
	Description    string          `json:"description"`
}

// SaleResponse salida de una venta registrada.
type SaleResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	EmployeeID      string          `json:"employee_id"`
	TargetKind      string          `json:"target_kind"`
	TargetID        string          `json:"target_id"`
	CategoryID      string          `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	SubCategoryName string          `json:"subcategory_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	Commission      decimal.Decimal `json:"commission"`
	PaymentType     string          `json:"payment_type"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	Description     string          `json:"description,omitempty"`
	Date            time.Time       `json:"date"`
}
