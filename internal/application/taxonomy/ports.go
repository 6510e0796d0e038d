package taxonomy

import (
	"context"

	"github.com/shayar/CommissionApp/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error, nada de lo escrito queda visible.
type TxRunner interface {
	RunTaxonomy(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		subCategoryRepo repository.SubCategoryRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
