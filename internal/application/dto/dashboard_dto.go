package dto

import "time"

// DashboardDTO respuesta de GET /api/dashboard.
// Admin recibe los rankings del mes; un empleado solo su resumen.
type DashboardDTO struct {
	Role         string                   `json:"role"`
	PeriodStart  time.Time                `json:"period_start"` // día 1 del mes en curso (UTC)
	DateLabel    string                   `json:"date_label"`   // ej: "October 2026"
	Summary      *EmployeeSummaryDTO      `json:"summary,omitempty"`
	TopEmployees []EmployeePerformanceDTO `json:"top_employees,omitempty"`
	Categories   []CategorySalesDTO       `json:"categories,omitempty"`
}
