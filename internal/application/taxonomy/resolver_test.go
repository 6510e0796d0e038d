package taxonomy_test

import (
	"context"
	"errors"
	"testing"
	"unsafe"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/infrastructure/memory"
)

const admin = "admin@example.com"

var ctx = context.Background()

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newResolver() (*taxonomy.RateResolver, *memory.Store) {
	s := memory.NewStore()
	return taxonomy.NewRateResolver(s, s.Categories(), s.SubCategories(), nil), s
}

func auditCount(t *testing.T, s *memory.Store) int {
	t.Helper()
	list, err := s.Audits().List(ctx, 200, 0)
	require.NoError(t, err)
	return len(list)
}

func TestAddCategory(t *testing.T) {
	uc, s := newResolver()

	c, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "  Books ", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Books", c.Name)
	assert.Equal(t, 1, auditCount(t, s))

	audits, _ := s.Audits().List(ctx, 1, 0)
	assert.Equal(t, "Category created: Books (Rate: 5%)", audits[0].Action)
	assert.Equal(t, admin, audits[0].PerformedBy)

	t.Run("nombre duplicado sin distinguir mayúsculas", func(t *testing.T) {
		_, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "BOOKS"}, admin)
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})
	t.Run("tasa fuera de rango", func(t *testing.T) {
		_, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Toys", CommissionRate: rate("1.5")}, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
		_, err = uc.AddCategory(ctx, dto.CategoryRequest{Name: "Toys", CommissionRate: rate("0")}, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
	t.Run("tasa con más de seis decimales", func(t *testing.T) {
		_, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Toys", CommissionRate: rate("0.0000004")}, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
		_, err = uc.AddCategory(ctx, dto.CategoryRequest{Name: "Toys", CommissionRate: rate("0.1234567")}, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
	t.Run("nombre vacío", func(t *testing.T) {
		_, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "   "}, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("sin tasa es válida", func(t *testing.T) {
		c, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics"}, admin)
		require.NoError(t, err)
		assert.Nil(t, c.CommissionRate)
	})

	assert.Equal(t, 2, auditCount(t, s), "los rechazos no escriben auditoría")
}

func TestAddSubCategory_ClearsParentRateOnFirstChild(t *testing.T) {
	uc, s := newResolver()
	cat, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)

	sub, err := uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.10")}, admin)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, sub.CategoryID)

	got, err := uc.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CommissionRate, "la primera subcategoría borra la tasa directa")
	require.Len(t, got.SubCategories, 1)

	_, err = uc.ResolveRate(ctx, entity.CategoryTarget(cat.ID))
	assert.ErrorIs(t, err, domain.ErrNotCommissionable)

	res, err := uc.ResolveRate(ctx, entity.SubCategoryTarget(sub.ID))
	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.RequireFromString("0.10")))
	assert.Equal(t, "Electronics", res.CategoryName)
	assert.Equal(t, "Phones", res.SubCategoryName)
	assert.Equal(t, cat.ID, res.CategoryID)

	audits, _ := s.Audits().List(ctx, 1, 0)
	assert.Equal(t, "SubCategory created: Phones (Rate: 10%) under Category Electronics", audits[0].Action)
}

func TestAddSubCategory_ParentIDNoDependeDelArgumento(t *testing.T) {
	uc, s := newResolver()
	cat, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics"}, admin)
	require.NoError(t, err)

	// el id llega sobre un buffer que el llamador reutiliza después
	buf := []byte(cat.ID)
	sub, err := uc.AddSubCategory(ctx, unsafe.String(&buf[0], len(buf)), dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 'x'
	}

	stored, err := s.SubCategories().GetByID(ctx, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, cat.ID, stored.CategoryID)

	got, err := uc.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, got.SubCategories, 1)
}

func TestAddSubCategory_FailureKeepsParentRate(t *testing.T) {
	uc, s := newResolver()
	cat, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)

	s.FailOn("audit.append", errors.New("audit store down"))
	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.10")}, admin)
	require.Error(t, err)
	s.FailOn("audit.append", nil)

	got, err := uc.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CommissionRate, "el rollback debe restaurar la tasa")
	assert.True(t, got.CommissionRate.Equal(decimal.RequireFromString("0.05")))
	assert.Empty(t, got.SubCategories)
}

func TestAddSubCategory_Rejections(t *testing.T) {
	uc, _ := newResolver()
	cat, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)

	_, err = uc.AddSubCategory(ctx, "missing", dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0")}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.0500001")}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	got, err := uc.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.CommissionRate, "una tasa inválida no toca la categoría")

	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	require.NoError(t, err)
	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "phones", CommissionRate: *rate("0.2")}, admin)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestUpdateCategory(t *testing.T) {
	uc, _ := newResolver()
	books, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Books", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)
	elec, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics"}, admin)
	require.NoError(t, err)
	_, err = uc.AddSubCategory(ctx, elec.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	require.NoError(t, err)

	t.Run("mismo nombre sobre sí misma", func(t *testing.T) {
		got, err := uc.UpdateCategory(ctx, books.ID, dto.CategoryRequest{Name: "BOOKS", CommissionRate: rate("0.07")}, admin)
		require.NoError(t, err)
		assert.Equal(t, "BOOKS", got.Name)
		assert.True(t, got.CommissionRate.Equal(decimal.RequireFromString("0.07")))
	})
	t.Run("nombre de otra categoría", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, books.ID, dto.CategoryRequest{Name: "electronics"}, admin)
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})
	t.Run("tasa directa con subcategorías", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, elec.ID, dto.CategoryRequest{Name: "Electronics", CommissionRate: rate("0.05")}, admin)
		assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	})
	t.Run("renombrar con subcategorías sin tasa", func(t *testing.T) {
		got, err := uc.UpdateCategory(ctx, elec.ID, dto.CategoryRequest{Name: "Gadgets"}, admin)
		require.NoError(t, err)
		assert.Len(t, got.SubCategories, 1)
	})
	t.Run("inexistente", func(t *testing.T) {
		_, err := uc.UpdateCategory(ctx, "missing", dto.CategoryRequest{Name: "X"}, admin)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateSubCategory(t *testing.T) {
	uc, _ := newResolver()
	cat, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics"}, admin)
	require.NoError(t, err)
	phones, err := uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	require.NoError(t, err)
	_, err = uc.AddSubCategory(ctx, cat.ID, dto.SubCategoryRequest{Name: "Laptops", CommissionRate: *rate("0.08")}, admin)
	require.NoError(t, err)

	got, err := uc.UpdateSubCategory(ctx, phones.ID, dto.SubCategoryRequest{Name: "phones", CommissionRate: *rate("0.12")}, admin)
	require.NoError(t, err)
	assert.True(t, got.CommissionRate.Equal(decimal.RequireFromString("0.12")))

	_, err = uc.UpdateSubCategory(ctx, phones.ID, dto.SubCategoryRequest{Name: "LAPTOPS", CommissionRate: *rate("0.1")}, admin)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = uc.UpdateSubCategory(ctx, phones.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("2")}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = uc.UpdateSubCategory(ctx, "missing", dto.SubCategoryRequest{Name: "X", CommissionRate: *rate("0.1")}, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveRate_Errors(t *testing.T) {
	uc, _ := newResolver()

	_, err := uc.ResolveRate(ctx, entity.SaleTarget{Kind: "product", ID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ResolveRate(ctx, entity.CategoryTarget("missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ResolveRate(ctx, entity.SubCategoryTarget("missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommissionableTargets(t *testing.T) {
	uc, _ := newResolver()
	_, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Books", CommissionRate: rate("0.05")}, admin)
	require.NoError(t, err)
	_, err = uc.AddCategory(ctx, dto.CategoryRequest{Name: "Misc"}, admin)
	require.NoError(t, err)
	elec, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Electronics"}, admin)
	require.NoError(t, err)
	_, err = uc.AddSubCategory(ctx, elec.ID, dto.SubCategoryRequest{Name: "Phones", CommissionRate: *rate("0.1")}, admin)
	require.NoError(t, err)

	targets, err := uc.CommissionableTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2, "las categorías sin tasa ni subcategorías no son comisionables")
	assert.Equal(t, "category", targets[0].TargetKind)
	assert.Equal(t, "Books", targets[0].CategoryName)
	assert.Equal(t, "subcategory", targets[1].TargetKind)
	assert.Equal(t, "Phones", targets[1].SubCategoryName)
}
