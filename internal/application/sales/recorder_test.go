package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/sales"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/internal/infrastructure/memory"
)

const admin = "admin@example.com"

var ctx = context.Background()

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

type fixture struct {
	store    *memory.Store
	taxonomy *taxonomy.RateResolver
	recorder *sales.Recorder
	catID    string
	phonesID string
	booksID  string
}

// newFixture arma Electronics (Phones 10%) y Books (5% directa) con un empleado u1.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	tax := taxonomy.NewRateResolver(s, s.Categories(), s.SubCategories(), nil)
	f := &fixture{
		store:    s,
		taxonomy: tax,
		recorder: sales.NewRecorder(s.Users(), tax, s.Sales(), sales.Config{}, nil),
	}

	elec, err := tax.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics", CommissionRate: ptr(dec("0.05"))}, admin)
	require.NoError(t, err)
	phones, err := tax.AddSubCategory(ctx, elec.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: dec("0.10")}, admin)
	require.NoError(t, err)
	books, err := tax.AddCategory(ctx, dto.CategoryRequest{Name: "Books", CommissionRate: ptr(dec("0.05"))}, admin)
	require.NoError(t, err)
	f.catID, f.phonesID, f.booksID = elec.ID, phones.ID, books.ID

	require.NoError(t, s.Users().Create(ctx, &entity.User{
		ID: "u1", EmployeeID: "E-001", Email: "ana@example.com", FullName: "Ana", Role: entity.RoleEmployee, Status: entity.UserActive,
	}))
	return f
}

func TestLogSale_SubCategory(t *testing.T) {
	f := newFixture(t)

	got, err := f.recorder.LogSale(ctx, "u1", dto.LogSaleRequest{
		TargetKind:     "subcategory",
		TargetID:       f.phonesID,
		Amount:         dec("200"),
		PaymentType:    "card",
		TrackingNumber: "TRK-9",
	})
	require.NoError(t, err)
	assert.True(t, got.Commission.Equal(dec("20")))
	assert.True(t, got.CommissionRate.Equal(dec("0.10")))
	assert.Equal(t, "Card", got.PaymentType, "se normaliza a la forma configurada")
	assert.Equal(t, f.catID, got.CategoryID)
	assert.Equal(t, "E-001", got.EmployeeID)

	audits, err := f.store.Audits().List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Sale under SubCategory: Electronics - Phones. Amt: $200.00, Comm: $20.00. Type: Card, Tracking: TRK-9", audits[0].Action)
	assert.Equal(t, "ana@example.com", audits[0].PerformedBy)
}

func TestLogSale_DirectCategory(t *testing.T) {
	f := newFixture(t)

	got, err := f.recorder.LogSale(ctx, "u1", dto.LogSaleRequest{
		TargetKind: "category", TargetID: f.booksID, Amount: dec("50"), PaymentType: "Cash",
	})
	require.NoError(t, err)
	assert.True(t, got.Commission.Equal(dec("2.5")))
	assert.Empty(t, got.SubCategoryName)

	audits, err := f.store.Audits().List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Sale under Category: Books. Amt: $50.00, Comm: $2.50. Type: Cash", audits[0].Action)
}

func TestLogSale_CommissionFrozenAfterRateChange(t *testing.T) {
	f := newFixture(t)
	sale, err := f.recorder.LogSale(ctx, "u1", dto.LogSaleRequest{
		TargetKind: "subcategory", TargetID: f.phonesID, Amount: dec("100"), PaymentType: "Cash",
	})
	require.NoError(t, err)

	_, err = f.taxonomy.UpdateSubCategory(ctx, f.phonesID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: dec("0.5")}, admin)
	require.NoError(t, err)

	stored, err := f.store.Sales().GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Commission.Equal(dec("10")))
	assert.True(t, stored.CommissionRate.Equal(dec("0.10")))
}

func TestLogSale_Rejections(t *testing.T) {
	f := newFixture(t)
	valid := dto.LogSaleRequest{TargetKind: "subcategory", TargetID: f.phonesID, Amount: dec("10"), PaymentType: "Cash"}

	tests := []struct {
		name   string
		userID string
		mutate func(r *dto.LogSaleRequest)
		want   error
	}{
		{"monto cero", "u1", func(r *dto.LogSaleRequest) { r.Amount = decimal.Zero }, domain.ErrInvalidInput},
		{"monto negativo", "u1", func(r *dto.LogSaleRequest) { r.Amount = dec("-5") }, domain.ErrInvalidInput},
		{"tres decimales", "u1", func(r *dto.LogSaleRequest) { r.Amount = dec("1.005") }, domain.ErrInvalidInput},
		{"medio de pago desconocido", "u1", func(r *dto.LogSaleRequest) { r.PaymentType = "Bitcoin" }, domain.ErrInvalidInput},
		{"tipo de destino inválido", "u1", func(r *dto.LogSaleRequest) { r.TargetKind = "product" }, domain.ErrInvalidInput},
		{"usuario inexistente", "ghost", func(r *dto.LogSaleRequest) {}, domain.ErrUserNotFound},
		{"subcategoría inexistente", "u1", func(r *dto.LogSaleRequest) { r.TargetID = "missing" }, domain.ErrNotFound},
		{"categoría con subcategorías", "u1", func(r *dto.LogSaleRequest) {
			r.TargetKind, r.TargetID = "category", f.catID
		}, domain.ErrNotCommissionable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := f.recorder.LogSale(ctx, tt.userID, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.store.Sales().Query(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún rechazo persiste ventas")
}

type zeroRates struct{}

func (zeroRates) ResolveRate(context.Context, entity.SaleTarget) (*taxonomy.Resolution, error) {
	return &taxonomy.Resolution{Rate: decimal.Zero, CategoryID: "c", CategoryName: "C"}, nil
}

func TestLogSale_ZeroRate(t *testing.T) {
	f := newFixture(t)
	rec := sales.NewRecorder(f.store.Users(), zeroRates{}, f.store.Sales(), sales.Config{}, nil)

	_, err := rec.LogSale(ctx, "u1", dto.LogSaleRequest{TargetKind: "category", TargetID: "c", Amount: dec("10"), PaymentType: "Cash"})
	assert.ErrorIs(t, err, domain.ErrZeroRate)
}

func TestLogSale_AtomicWithAudit(t *testing.T) {
	f := newFixture(t)
	before, err := f.store.Audits().List(ctx, 200, 0)
	require.NoError(t, err)

	f.store.FailOn("audit.append", errors.New("audit store down"))
	_, err = f.recorder.LogSale(ctx, "u1", dto.LogSaleRequest{TargetKind: "subcategory", TargetID: f.phonesID, Amount: dec("10"), PaymentType: "Cash"})
	require.Error(t, err)
	f.store.FailOn("audit.append", nil)

	list, err := f.store.Sales().Query(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	after, err := f.store.Audits().List(ctx, 200, 0)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestLogSale_CustomPaymentTypes(t *testing.T) {
	f := newFixture(t)
	rec := sales.NewRecorder(f.store.Users(), f.taxonomy, f.store.Sales(), sales.Config{PaymentTypes: []string{"Cash", "Card", "Transfer"}}, nil)
	assert.Equal(t, []string{"Cash", "Card", "Transfer"}, rec.PaymentTypes())

	got, err := rec.LogSale(ctx, "u1", dto.LogSaleRequest{TargetKind: "category", TargetID: f.booksID, Amount: dec("10"), PaymentType: " transfer "})
	require.NoError(t, err)
	assert.Equal(t, "Transfer", got.PaymentType)
	assert.WithinDuration(t, time.Now(), got.Date, time.Minute)
}
