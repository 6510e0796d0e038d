package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Filtros ───────────────────────────────────────────────────────────────────

// DateRange rango opcional de días: Start inclusivo desde las 00:00 UTC,
// End inclusivo hasta el final del día (se consulta como < End+1 día).
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// HistoryFilter filtros del historial de un empleado.
type HistoryFilter struct {
	Range         DateRange
	CategoryID    string
	SubCategoryID string
}

// AdminReportFilter filtros del reporte administrativo.
type AdminReportFilter struct {
	UserID     string
	Range      DateRange
	SearchTerm string
}

// ── Historial de empleado ─────────────────────────────────────────────────────

// SaleItemDTO línea del historial de un empleado.
type SaleItemDTO struct {
	Date             time.Time       `json:"date"`
	CategoryName     string          `json:"category_name"`
	SubCategoryName  string          `json:"subcategory_name"` // "N/A" en ventas directas
	Amount           decimal.Decimal `json:"amount"`
	CommissionEarned decimal.Decimal `json:"commission_earned"`
	PaymentType      string          `json:"payment_type"`
	TrackingNumber   string          `json:"tracking_number,omitempty"`
	Description      string          `json:"description,omitempty"`
}

// SalesHistoryDTO historial con totales calculados sobre exactamente las mismas líneas.
type SalesHistoryDTO struct {
	Sales                 []SaleItemDTO   `json:"sales"`
	TotalSalesAmount      decimal.Decimal `json:"total_sales_amount"`
	TotalCommissionAmount decimal.Decimal `json:"total_commission_amount"`
}

// ── Reporte administrativo ────────────────────────────────────────────────────

// ReportSaleDetailDTO línea del reporte administrativo.
type ReportSaleDetailDTO struct {
	Date             time.Time       `json:"date"`
	UserID           string          `json:"user_id"`
	EmployeeName     string          `json:"employee_name"`
	CategoryName     string          `json:"category_name"`
	SubCategoryName  string          `json:"subcategory_name"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionEarned decimal.Decimal `json:"commission_earned"`
	PaymentType      string          `json:"payment_type"`
	TrackingNumber   string          `json:"tracking_number,omitempty"`
	Description      string          `json:"description,omitempty"`
}

// SalesReportDTO reporte administrativo: detalle, totales por categoría y totales generales.
type SalesReportDTO struct {
	SalesDetails         []ReportSaleDetailDTO      `json:"sales_details"`
	TotalsByCategory     map[string]decimal.Decimal `json:"totals_by_category"` // nombre de categoría -> monto
	GrandTotalSales      decimal.Decimal            `json:"grand_total_sales"`
	GrandTotalCommission decimal.Decimal            `json:"grand_total_commission"`
}

// ── Rankings ──────────────────────────────────────────────────────────────────

// EmployeePerformanceDTO posición de un empleado en el ranking.
type EmployeePerformanceDTO struct {
	UserID           string          `json:"user_id"`
	EmployeeFullName string          `json:"employee_full_name"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
}

// CategorySalesDTO ventas agregadas por categoría.
type CategorySalesDTO struct {
	CategoryName string          `json:"category_name"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}

// EmployeeSummaryDTO totales de un empleado en un período.
type EmployeeSummaryDTO struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	SaleCount       int             `json:"sale_count"`
}
