package postgres

import (
	"context"
	"time"

	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregaciones de solo lectura para rankings y dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// TotalsByUser ventas y comisiones por usuario desde since (inclusivo). El orden lo decide el caso de uso.
func (r *ReportRepo) TotalsByUser(ctx context.Context, since time.Time) ([]repository.UserTotals, error) {
	const query = `
	SELECT
	    s.user_id,
	    COALESCE(SUM(s.amount), 0)     AS total_sales,
	    COALESCE(SUM(s.commission), 0) AS total_commission
	FROM sales s
	WHERE s.created_at >= $1
	GROUP BY s.user_id`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, storeErr("report.TotalsByUser", err)
	}
	defer rows.Close()

	out := []repository.UserTotals{}
	for rows.Next() {
		var t repository.UserTotals
		if err := rows.Scan(&t.UserID, &t.TotalSales, &t.TotalCommission); err != nil {
			return nil, storeErr("report.TotalsByUser scan", err)
		}
		out = append(out, t)
	}
	return out, storeErr("report.TotalsByUser", rows.Err())
}

// TotalsByCategory ventas por categoría de agregación desde since (inclusivo).
func (r *ReportRepo) TotalsByCategory(ctx context.Context, since time.Time) ([]repository.CategoryTotals, error) {
	const query = `
	SELECT
	    c.id,
	    c.name,
	    COALESCE(SUM(s.amount), 0) AS total_sales
	FROM sales s
	JOIN categories c ON c.id = s.category_id
	WHERE s.created_at >= $1
	GROUP BY c.id, c.name`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, storeErr("report.TotalsByCategory", err)
	}
	defer rows.Close()

	out := []repository.CategoryTotals{}
	for rows.Next() {
		var t repository.CategoryTotals
		if err := rows.Scan(&t.CategoryID, &t.CategoryName, &t.TotalSales); err != nil {
			return nil, storeErr("report.TotalsByCategory scan", err)
		}
		out = append(out, t)
	}
	return out, storeErr("report.TotalsByCategory", rows.Err())
}

// SummaryByUser totales de un usuario desde since. Sin ventas devuelve ceros.
func (r *ReportRepo) SummaryByUser(ctx context.Context, userID string, since time.Time) (repository.SalesSummary, error) {
	const query = `
	SELECT
	    COALESCE(SUM(amount), 0),
	    COALESCE(SUM(commission), 0),
	    COUNT(*)
	FROM sales
	WHERE user_id = $1 AND created_at >= $2`

	var s repository.SalesSummary
	if err := r.q.QueryRow(ctx, query, userID, since).Scan(&s.TotalSales, &s.TotalCommission, &s.SaleCount); err != nil {
		return s, storeErr("report.SummaryByUser", err)
	}
	return s, nil
}
