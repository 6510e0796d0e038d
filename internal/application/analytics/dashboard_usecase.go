// Package analytics arma el dashboard del mes en curso a partir de los rankings de reportes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// Rankings fuente de datos del dashboard. Lo implementa *reports.Aggregator.
type Rankings interface {
	PerformanceRanking(ctx context.Context, since time.Time, topN int) ([]dto.EmployeePerformanceDTO, error)
	CategoryRanking(ctx context.Context, since time.Time) ([]dto.CategorySalesDTO, error)
	EmployeeSummary(ctx context.Context, userID string, since time.Time) (*dto.EmployeeSummaryDTO, error)
}

// DashboardUseCase genera el dashboard del mes en curso según el rol.
type DashboardUseCase struct {
	rankings     Rankings
	topEmployees int
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso. topEmployees <= 0 usa 5.
func NewDashboardUseCase(rankings Rankings, topEmployees int) *DashboardUseCase {
	if topEmployees <= 0 {
		topEmployees = 5
	}
	return &DashboardUseCase{rankings: rankings, topEmployees: topEmployees, now: time.Now}
}

// GetDashboard construye el DashboardDTO.
//
// Admin: dos llamadas en paralelo
//  1. PerformanceRanking(mes, top N) → TopEmployees
//  2. CategoryRanking(mes)           → Categories
//
// Empleado: EmployeeSummary(mes) → Summary
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, userID, role string) (*dto.DashboardDTO, error) {
	now := uc.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := &dto.DashboardDTO{
		Role:        role,
		PeriodStart: monthStart,
		DateLabel:   monthLabel(now),
	}

	if role != entity.RoleAdmin {
		summary, err := uc.rankings.EmployeeSummary(ctx, userID, monthStart)
		if err != nil {
			return nil, fmt.Errorf("dashboard: resumen de empleado: %w", err)
		}
		out.Summary = summary
		return out, nil
	}

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type employeesResult struct {
		list []dto.EmployeePerformanceDTO
		err  error
	}
	type categoriesResult struct {
		list []dto.CategorySalesDTO
		err  error
	}

	employeesCh := make(chan employeesResult, 1)
	categoriesCh := make(chan categoriesResult, 1)

	go func() {
		list, err := uc.rankings.PerformanceRanking(ctx, monthStart, uc.topEmployees)
		employeesCh <- employeesResult{list, err}
	}()
	go func() {
		list, err := uc.rankings.CategoryRanking(ctx, monthStart)
		categoriesCh <- categoriesResult{list, err}
	}()

	employees := <-employeesCh
	categories := <-categoriesCh

	if employees.err != nil {
		return nil, fmt.Errorf("dashboard: top empleados: %w", employees.err)
	}
	if categories.err != nil {
		return nil, fmt.Errorf("dashboard: ventas por categoría: %w", categories.err)
	}

	out.TopEmployees = employees.list
	out.Categories = categories.list
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "October 2026".
func monthLabel(t time.Time) string {
	return t.Format("January 2006")
}
