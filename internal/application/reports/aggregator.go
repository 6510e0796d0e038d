// Package reports agrega el libro de ventas en vistas de solo lectura: historial de empleado,
// reporte administrativo con búsqueda y rankings del dashboard.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/pkg/logger"
)

// DefaultTopN tamaño del ranking de empleados cuando no se indica.
const DefaultTopN = 5

// NotApplicable nombre de subcategoría para ventas directas sobre la categoría.
const NotApplicable = "N/A"

// Aggregator casos de uso de reportes. No modifica datos.
type Aggregator struct {
	saleRepo   repository.SaleRepository
	reportRepo repository.ReportRepository
	users      UserLookup
	log        *logger.Logger
}

// NewAggregator construye el caso de uso. log puede ser nil.
func NewAggregator(
	saleRepo repository.SaleRepository,
	reportRepo repository.ReportRepository,
	users UserLookup,
	log *logger.Logger,
) *Aggregator {
	return &Aggregator{
		saleRepo:   saleRepo,
		reportRepo: reportRepo,
		users:      users,
		log:        logger.OrNop(log).Named("reports"),
	}
}

// ── Historial de empleado ─────────────────────────────────────────────────────

// EmployeeHistory devuelve las ventas del usuario, más recientes primero, con totales
// calculados en la misma pasada que las líneas.
//
// El filtro de categoría incluye las ventas de sus subcategorías y las ventas directas
// sobre la categoría.
func (uc *Aggregator) EmployeeHistory(ctx context.Context, userID string, f dto.HistoryFilter) (*dto.SalesHistoryDTO, error) {
	if userID == "" {
		return nil, domain.Fail(domain.ErrInvalidInput, "user_id", "")
	}
	from, to := dayBounds(f.Range)
	records, err := uc.saleRepo.Query(ctx, repository.SaleFilter{
		UserID:        userID,
		CategoryID:    f.CategoryID,
		SubCategoryID: f.SubCategoryID,
		From:          from,
		To:            to,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("historial de ventas")
		return nil, fmt.Errorf("reports: historial: %w", err)
	}

	out := &dto.SalesHistoryDTO{
		Sales:                 make([]dto.SaleItemDTO, 0, len(records)),
		TotalSalesAmount:      decimal.Zero,
		TotalCommissionAmount: decimal.Zero,
	}
	for _, r := range records {
		out.Sales = append(out.Sales, dto.SaleItemDTO{
			Date:             r.CreatedAt,
			CategoryName:     r.CategoryName,
			SubCategoryName:  subCategoryLabel(r),
			Amount:           r.Amount,
			CommissionEarned: r.Commission,
			PaymentType:      r.PaymentType,
			TrackingNumber:   r.TrackingNumber,
			Description:      r.Description,
		})
		out.TotalSalesAmount = out.TotalSalesAmount.Add(r.Amount)
		out.TotalCommissionAmount = out.TotalCommissionAmount.Add(r.Commission)
	}
	return out, nil
}

// ── Reporte administrativo ────────────────────────────────────────────────────

// AdminReport reporte de todas las ventas con filtros opcionales de usuario, fechas y
// búsqueda (subcategoría, categoría o descripción, sin distinguir mayúsculas).
// Los nombres de empleado se resuelven con una única consulta sobre los ids presentes.
func (uc *Aggregator) AdminReport(ctx context.Context, f dto.AdminReportFilter) (*dto.SalesReportDTO, error) {
	from, to := dayBounds(f.Range)
	records, err := uc.saleRepo.Query(ctx, repository.SaleFilter{
		UserID: f.UserID,
		From:   from,
		To:     to,
		Search: f.SearchTerm,
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("reporte administrativo")
		return nil, fmt.Errorf("reports: reporte admin: %w", err)
	}

	ids := distinctUserIDs(records)
	names, err := uc.lookupNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &dto.SalesReportDTO{
		SalesDetails:         make([]dto.ReportSaleDetailDTO, 0, len(records)),
		TotalsByCategory:     map[string]decimal.Decimal{},
		GrandTotalSales:      decimal.Zero,
		GrandTotalCommission: decimal.Zero,
	}
	for _, r := range records {
		out.SalesDetails = append(out.SalesDetails, dto.ReportSaleDetailDTO{
			Date:             r.CreatedAt,
			UserID:           r.UserID,
			EmployeeName:     names.name(r.UserID),
			CategoryName:     r.CategoryName,
			SubCategoryName:  subCategoryLabel(r),
			Amount:           r.Amount,
			CommissionEarned: r.Commission,
			PaymentType:      r.PaymentType,
			TrackingNumber:   r.TrackingNumber,
			Description:      r.Description,
		})
		out.TotalsByCategory[r.CategoryName] = out.TotalsByCategory[r.CategoryName].Add(r.Amount)
		out.GrandTotalSales = out.GrandTotalSales.Add(r.Amount)
		out.GrandTotalCommission = out.GrandTotalCommission.Add(r.Commission)
	}

	uc.log.Debug().Int("rows", len(records)).Int("employees", len(ids)).Msg("reporte administrativo generado")
	return out, nil
}

// ── Rankings ──────────────────────────────────────────────────────────────────

// PerformanceRanking ranking de empleados por ventas desde since (inclusivo).
// Ordena por total de ventas descendente, desempata por user id ascendente y
// recorta a topN después de ordenar.
func (uc *Aggregator) PerformanceRanking(ctx context.Context, since time.Time, topN int) ([]dto.EmployeePerformanceDTO, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	totals, err := uc.reportRepo.TotalsByUser(ctx, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("reports: ranking de empleados: %w", err)
	}

	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].TotalSales.Cmp(totals[j].TotalSales); c != 0 {
			return c > 0
		}
		return totals[i].UserID < totals[j].UserID
	})
	if len(totals) > topN {
		totals = totals[:topN]
	}

	ids := make([]string, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.UserID)
	}
	names, err := uc.lookupNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EmployeePerformanceDTO, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.EmployeePerformanceDTO{
			UserID:           t.UserID,
			EmployeeFullName: names.name(t.UserID),
			TotalSales:       t.TotalSales,
			TotalCommission:  t.TotalCommission,
		})
	}
	return out, nil
}

// CategoryRanking ventas por categoría desde since (inclusivo), mayor a menor,
// desempate por nombre ascendente.
func (uc *Aggregator) CategoryRanking(ctx context.Context, since time.Time) ([]dto.CategorySalesDTO, error) {
	totals, err := uc.reportRepo.TotalsByCategory(ctx, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("reports: ranking de categorías: %w", err)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].TotalSales.Cmp(totals[j].TotalSales); c != 0 {
			return c > 0
		}
		return totals[i].CategoryName < totals[j].CategoryName
	})

	out := make([]dto.CategorySalesDTO, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.CategorySalesDTO{CategoryName: t.CategoryName, TotalSales: t.TotalSales})
	}
	return out, nil
}

// EmployeeSummary totales de un empleado desde since (widget del dashboard).
func (uc *Aggregator) EmployeeSummary(ctx context.Context, userID string, since time.Time) (*dto.EmployeeSummaryDTO, error) {
	if userID == "" {
		return nil, domain.Fail(domain.ErrInvalidInput, "user_id", "")
	}
	s, err := uc.reportRepo.SummaryByUser(ctx, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("reports: resumen de empleado: %w", err)
	}
	return &dto.EmployeeSummaryDTO{
		TotalSales:      s.TotalSales,
		TotalCommission: s.TotalCommission,
		SaleCount:       s.SaleCount,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// dayBounds convierte el rango de días en [inicio del día Start, día siguiente a End) en UTC.
func dayBounds(r dto.DateRange) (from, to time.Time) {
	if r.Start != nil {
		from = startOfDay(*r.Start)
	}
	if r.End != nil {
		to = startOfDay(*r.End).AddDate(0, 0, 1)
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func subCategoryLabel(r repository.SaleRecord) string {
	if r.SubCategoryName == "" {
		return NotApplicable
	}
	return r.SubCategoryName
}

func distinctUserIDs(records []repository.SaleRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}

type nameLookup map[string]string

func (n nameLookup) name(userID string) string {
	if s, ok := n[userID]; ok {
		return s
	}
	return "Unknown Employee"
}

func (uc *Aggregator) lookupNames(ctx context.Context, ids []string) (nameLookup, error) {
	out := nameLookup{}
	if len(ids) == 0 {
		return out, nil
	}
	users, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("reports: resolver empleados: %w", err)
	}
	for id, u := range users {
		out[id] = u.DisplayName()
	}
	return out, nil
}
