package reports_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/infrastructure/memory"
)

var ctx = context.Background()

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	agg   *reports.Aggregator
	seq   int
}

// newFixture: Electronics con Phones, Books con tasa directa y tres empleados.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	r := dec("0.05")
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "elec", Name: "Electronics"}))
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "books", Name: "Books", CommissionRate: &r}))
	require.NoError(t, s.SubCategories().Create(ctx, &entity.SubCategory{ID: "phones", CategoryID: "elec", Name: "Phones", CommissionRate: dec("0.1")}))
	for _, u := range []entity.User{
		{ID: "u1", Email: "ana@example.com", FullName: "Ana Ruiz"},
		{ID: "u2", Email: "bob@example.com", FullName: "Bob Diaz"},
		{ID: "u3", Email: "cy@example.com"},
	} {
		require.NoError(t, s.Users().Create(ctx, &u))
	}
	return &fixture{store: s, agg: reports.NewAggregator(s.Sales(), s.Reports(), s.Users(), nil)}
}

func (f *fixture) sale(t *testing.T, user string, target entity.SaleTarget, amount, comm string, at time.Time, desc string) {
	t.Helper()
	f.seq++
	cat := target.ID
	if target.Kind == entity.TargetSubCategory {
		cat = "elec"
	}
	require.NoError(t, f.store.Sales().Insert(ctx, &entity.Sale{
		ID:          fmt.Sprintf("s%03d", f.seq),
		UserID:      user,
		Target:      target,
		CategoryID:  cat,
		Amount:      dec(amount),
		Commission:  dec(comm),
		PaymentType: entity.PaymentCash,
		Description: desc,
		CreatedAt:   at,
	}, &entity.Audit{ID: fmt.Sprintf("a%03d", f.seq), CreatedAt: at}))
}

var march = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestEmployeeHistory_Totals(t *testing.T) {
	f := newFixture(t)
	f.sale(t, "u1", entity.SubCategoryTarget("phones"), "50", "5", march, "")
	f.sale(t, "u1", entity.CategoryTarget("books"), "75", "3.75", march.Add(time.Hour), "")
	f.sale(t, "u2", entity.CategoryTarget("books"), "999", "49.95", march, "")

	h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, h.Sales, 2)
	assert.True(t, h.TotalSalesAmount.Equal(dec("125")))
	assert.True(t, h.TotalCommissionAmount.Equal(dec("8.75")))
	assert.Equal(t, "Books", h.Sales[0].CategoryName, "más recientes primero")
	assert.Equal(t, reports.NotApplicable, h.Sales[0].SubCategoryName)
	assert.Equal(t, "Phones", h.Sales[1].SubCategoryName)
}

func TestEmployeeHistory_EmptyTotalsAreZero(t *testing.T) {
	f := newFixture(t)
	h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, h.Sales)
	assert.NotNil(t, h.Sales)
	assert.True(t, h.TotalSalesAmount.IsZero())
	assert.True(t, h.TotalCommissionAmount.IsZero())
}

func TestEmployeeHistory_Filters(t *testing.T) {
	f := newFixture(t)
	f.sale(t, "u1", entity.SubCategoryTarget("phones"), "50", "5", march, "")
	f.sale(t, "u1", entity.CategoryTarget("books"), "75", "3.75", march.AddDate(0, 0, 2), "")

	t.Run("categoría incluye sus subcategorías", func(t *testing.T) {
		h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{CategoryID: "elec"})
		require.NoError(t, err)
		require.Len(t, h.Sales, 1)
		assert.Equal(t, "Phones", h.Sales[0].SubCategoryName)
	})
	t.Run("categoría incluye ventas directas", func(t *testing.T) {
		h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{CategoryID: "books"})
		require.NoError(t, err)
		require.Len(t, h.Sales, 1)
		assert.True(t, h.TotalSalesAmount.Equal(dec("75")))
	})
	t.Run("subcategoría", func(t *testing.T) {
		h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{SubCategoryID: "phones"})
		require.NoError(t, err)
		assert.Len(t, h.Sales, 1)
	})
	t.Run("rango de días inclusivo", func(t *testing.T) {
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{Range: dto.DateRange{Start: &day, End: &day}})
		require.NoError(t, err)
		require.Len(t, h.Sales, 1, "End cubre el día completo")
		assert.True(t, h.TotalSalesAmount.Equal(dec("50")))
	})
	t.Run("rango invertido", func(t *testing.T) {
		start := march.AddDate(0, 0, 5)
		end := march
		h, err := f.agg.EmployeeHistory(ctx, "u1", dto.HistoryFilter{Range: dto.DateRange{Start: &start, End: &end}})
		require.NoError(t, err)
		assert.Empty(t, h.Sales)
	})
}

func TestAdminReport(t *testing.T) {
	f := newFixture(t)
	f.sale(t, "u1", entity.SubCategoryTarget("phones"), "100", "10", march, "")
	f.sale(t, "u2", entity.CategoryTarget("books"), "40", "2", march.Add(time.Hour), "Will SHIP Monday")
	f.sale(t, "u3", entity.CategoryTarget("books"), "60", "3", march.Add(2*time.Hour), "")

	all, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{})
	require.NoError(t, err)
	require.Len(t, all.SalesDetails, 3)
	assert.True(t, all.GrandTotalSales.Equal(dec("200")))
	assert.True(t, all.GrandTotalCommission.Equal(dec("15")))
	assert.True(t, all.TotalsByCategory["Books"].Equal(dec("100")))
	assert.True(t, all.TotalsByCategory["Electronics"].Equal(dec("100")))
	assert.Equal(t, "cy@example.com", all.SalesDetails[0].EmployeeName, "sin nombre se usa el email")
	assert.Equal(t, "Ana Ruiz", all.SalesDetails[2].EmployeeName)

	search, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{SearchTerm: "ship"})
	require.NoError(t, err)
	require.Len(t, search.SalesDetails, 1)
	assert.Equal(t, "Bob Diaz", search.SalesDetails[0].EmployeeName)
	assert.True(t, search.GrandTotalSales.Equal(dec("40")))

	byCategoryName, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{SearchTerm: "electro"})
	require.NoError(t, err)
	assert.Len(t, byCategoryName.SalesDetails, 1)

	byUser, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{UserID: "u3"})
	require.NoError(t, err)
	require.Len(t, byUser.SalesDetails, 1)

	none, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{SearchTerm: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, none.SalesDetails)
	assert.True(t, none.GrandTotalSales.IsZero())
	assert.Empty(t, none.TotalsByCategory)
}

func TestAdminReport_SearchSoloEnCamposBuscables(t *testing.T) {
	f := newFixture(t)
	f.sale(t, "u2", entity.CategoryTarget("books"), "40", "2", march, "Will ship Monday")
	require.NoError(t, f.store.Sales().Insert(ctx, &entity.Sale{
		ID:             "s-track",
		UserID:         "u1",
		Target:         entity.SubCategoryTarget("phones"),
		CategoryID:     "elec",
		Amount:         dec("90"),
		Commission:     dec("9"),
		PaymentType:    entity.PaymentCard,
		TrackingNumber: "SHIP-42",
		Description:    "express delivery",
		CreatedAt:      march.Add(time.Hour),
	}, &entity.Audit{ID: "a-track", CreatedAt: march.Add(time.Hour)}))

	rep, err := f.agg.AdminReport(ctx, dto.AdminReportFilter{SearchTerm: "ship"})
	require.NoError(t, err)
	require.Len(t, rep.SalesDetails, 1, "el número de seguimiento no participa de la búsqueda")
	assert.Equal(t, "Will ship Monday", rep.SalesDetails[0].Description)
	assert.True(t, rep.GrandTotalSales.Equal(dec("40")))
	assert.NotContains(t, rep.TotalsByCategory, "Electronics")
}

func TestAdminReport_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	f.sale(t, "u1", entity.CategoryTarget("books"), "10", "0.5", march, "")

	agg := reports.NewAggregator(f.store.Sales(), f.store.Reports(), emptyUsers{}, nil)
	rep, err := agg.AdminReport(ctx, dto.AdminReportFilter{})
	require.NoError(t, err)
	require.Len(t, rep.SalesDetails, 1)
	assert.Equal(t, "Unknown Employee", rep.SalesDetails[0].EmployeeName)
}

type emptyUsers struct{}

func (emptyUsers) GetByIDs(context.Context, []string) (map[string]*entity.User, error) {
	return map[string]*entity.User{}, nil
}

func TestPerformanceRanking(t *testing.T) {
	f := newFixture(t)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.sale(t, "u1", entity.CategoryTarget("books"), "100", "5", march, "")
	f.sale(t, "u2", entity.CategoryTarget("books"), "300", "15", march, "")
	f.sale(t, "u3", entity.CategoryTarget("books"), "100", "5", march, "")
	f.sale(t, "u3", entity.CategoryTarget("books"), "5000", "250", monthStart.AddDate(0, -1, 0), "")

	got, err := f.agg.PerformanceRanking(ctx, monthStart, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "u2", got[0].UserID)
	assert.Equal(t, "Bob Diaz", got[0].EmployeeFullName)
	assert.Equal(t, "u1", got[1].UserID, "empate resuelto por user id")
	assert.Equal(t, "u3", got[2].UserID)
	assert.True(t, got[2].TotalSales.Equal(dec("100")), "solo cuenta el período")

	top, err := f.agg.PerformanceRanking(ctx, monthStart, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	def, err := f.agg.PerformanceRanking(ctx, monthStart, 0)
	require.NoError(t, err)
	assert.Len(t, def, 3)
}

func TestCategoryRanking(t *testing.T) {
	f := newFixture(t)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.sale(t, "u1", entity.SubCategoryTarget("phones"), "100", "10", march, "")
	f.sale(t, "u1", entity.CategoryTarget("books"), "100", "5", march, "")

	got, err := f.agg.CategoryRanking(ctx, monthStart)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Books", got[0].CategoryName, "empate resuelto por nombre")
	assert.Equal(t, "Electronics", got[1].CategoryName)

	f.sale(t, "u2", entity.SubCategoryTarget("phones"), "1", "0.1", march, "")
	got, err = f.agg.CategoryRanking(ctx, monthStart)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", got[0].CategoryName)
	assert.True(t, got[0].TotalSales.Equal(dec("101")))
}

func TestEmployeeSummary(t *testing.T) {
	f := newFixture(t)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.sale(t, "u1", entity.CategoryTarget("books"), "20", "1", march, "")
	f.sale(t, "u1", entity.CategoryTarget("books"), "30", "1.5", march, "")

	got, err := f.agg.EmployeeSummary(ctx, "u1", monthStart)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SaleCount)
	assert.True(t, got.TotalSales.Equal(dec("50")))
	assert.True(t, got.TotalCommission.Equal(dec("2.5")))

	_, err = f.agg.EmployeeSummary(ctx, "", monthStart)
	assert.Error(t, err)
}
