package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shayar/CommissionApp/internal/application/auth"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var (
	_ taxonomy.TxRunner = (*TxRunner)(nil)
	_ auth.TxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTaxonomy transacción con repos de categorías, subcategorías y bitácora.
func (r *TxRunner) RunTaxonomy(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCategoryRepository(tx), NewSubCategoryRepository(tx), NewAuditRepository(tx))
	})
}

// RunIdentity transacción con repos de usuarios y bitácora (registro de actividad de login).
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewAuditRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}
