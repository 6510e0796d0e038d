package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/infrastructure/memory"
)

func TestMessages(t *testing.T) {
	r := decimal.RequireFromString("0.125")
	assert.Equal(t, "Category created: Toys (Rate: 12.5%)", audit.CategoryCreated("Toys", &r))
	assert.Equal(t, "Category created: Toys (Rate: N/A)", audit.CategoryCreated("Toys", nil))
	assert.Equal(t, "Category updated: Toys", audit.CategoryUpdated("Toys"))
	assert.Equal(t, "SubCategory updated: Dolls", audit.SubCategoryUpdated("Dolls"))
	assert.Equal(t,
		"Sale under Category: Books. Amt: $1,234.50, Comm: $61.73. Type: Cash",
		audit.SaleLogged("Books", "", decimal.RequireFromString("1234.5"), decimal.RequireFromString("61.725"), "Cash", ""),
	)
}

func TestTrailRecordAndList(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	trail := audit.NewTrail(s.Audits())

	first, err := trail.Record(ctx, "Category updated: A", "admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, time.UTC, first.CreatedAt.Location())

	_, err = trail.Record(ctx, "Category updated: B", "admin@example.com")
	require.NoError(t, err)

	list, err := audit.NewListUseCase(s.Audits()).List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = audit.NewListUseCase(s.Audits()).List(ctx, 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
