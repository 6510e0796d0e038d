package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var (
	_ repository.SaleRepository   = (*SaleRepo)(nil)
	_ repository.ReportRepository = (*ReportRepo)(nil)
)

// SaleRepo implementación en memoria del libro de ventas.
type SaleRepo struct{ sc scope }

// Insert agrega venta y auditoría bajo el mismo lock: ambas o ninguna.
func (r *SaleRepo) Insert(_ context.Context, sale *entity.Sale, audit *entity.Audit) error {
	return r.sc.write("sale.insert", func(st *state) error {
		if err := r.sc.store.fault("audit.append"); err != nil {
			return err
		}
		if _, ok := st.users[sale.UserID]; !ok {
			return domain.Fail(domain.ErrUserNotFound, "user_id", sale.UserID)
		}
		st.sales = append(st.sales, *sale)
		st.audits = append(st.audits, *audit)
		return nil
	})
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.sc.read(func(st *state) error {
		for _, s := range st.sales {
			if s.ID == id {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Query filtra las ventas y resuelve nombres de categoría y subcategoría al leer.
func (r *SaleRepo) Query(_ context.Context, f repository.SaleFilter) ([]repository.SaleRecord, error) {
	out := []repository.SaleRecord{}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.sc.read(func(st *state) error {
		for _, s := range st.sales {
			if !matchesBasic(s, f) {
				continue
			}
			rec := repository.SaleRecord{Sale: s, CategoryName: st.categories[s.CategoryID].Name}
			if sub, ok := st.subcategories[s.SubCategoryID()]; ok {
				rec.SubCategoryName = sub.Name
			}
			if search != "" && !containsFold(search, rec.SubCategoryName, rec.CategoryName, rec.Description) {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func matchesBasic(s entity.Sale, f repository.SaleFilter) bool {
	switch {
	case f.UserID != "" && s.UserID != f.UserID:
		return false
	case f.CategoryID != "" && s.CategoryID != f.CategoryID:
		return false
	case f.SubCategoryID != "" && s.SubCategoryID() != f.SubCategoryID:
		return false
	case !f.From.IsZero() && s.CreatedAt.Before(f.From):
		return false
	case !f.To.IsZero() && !s.CreatedAt.Before(f.To):
		return false
	}
	return true
}

func containsFold(lowerTerm string, fields ...string) bool {
	for _, v := range fields {
		if v != "" && strings.Contains(strings.ToLower(v), lowerTerm) {
			return true
		}
	}
	return false
}

// ReportRepo agregaciones de solo lectura en memoria.
type ReportRepo struct{ sc scope }

// TotalsByUser agrupa por usuario las ventas con fecha >= since.
func (r *ReportRepo) TotalsByUser(_ context.Context, since time.Time) ([]repository.UserTotals, error) {
	out := []repository.UserTotals{}
	err := r.sc.read(func(st *state) error {
		idx := map[string]int{}
		for _, s := range st.sales {
			if s.CreatedAt.Before(since) {
				continue
			}
			i, ok := idx[s.UserID]
			if !ok {
				i = len(out)
				idx[s.UserID] = i
				out = append(out, repository.UserTotals{UserID: s.UserID, TotalSales: decimal.Zero, TotalCommission: decimal.Zero})
			}
			out[i].TotalSales = out[i].TotalSales.Add(s.Amount)
			out[i].TotalCommission = out[i].TotalCommission.Add(s.Commission)
		}
		return nil
	})
	return out, err
}

// TotalsByCategory agrupa por categoría de agregación las ventas con fecha >= since.
func (r *ReportRepo) TotalsByCategory(_ context.Context, since time.Time) ([]repository.CategoryTotals, error) {
	out := []repository.CategoryTotals{}
	err := r.sc.read(func(st *state) error {
		idx := map[string]int{}
		for _, s := range st.sales {
			if s.CreatedAt.Before(since) {
				continue
			}
			i, ok := idx[s.CategoryID]
			if !ok {
				i = len(out)
				idx[s.CategoryID] = i
				out = append(out, repository.CategoryTotals{
					CategoryID:   s.CategoryID,
					CategoryName: st.categories[s.CategoryID].Name,
					TotalSales:   decimal.Zero,
				})
			}
			out[i].TotalSales = out[i].TotalSales.Add(s.Amount)
		}
		return nil
	})
	return out, err
}

// SummaryByUser suma las ventas del usuario con fecha >= since.
func (r *ReportRepo) SummaryByUser(_ context.Context, userID string, since time.Time) (repository.SalesSummary, error) {
	sum := repository.SalesSummary{TotalSales: decimal.Zero, TotalCommission: decimal.Zero}
	err := r.sc.read(func(st *state) error {
		for _, s := range st.sales {
			if s.UserID != userID || s.CreatedAt.Before(since) {
				continue
			}
			sum.TotalSales = sum.TotalSales.Add(s.Amount)
			sum.TotalCommission = sum.TotalCommission.Add(s.Commission)
			sum.SaleCount++
		}
		return nil
	})
	return sum, err
}
