package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, code, name, commission_rate, created_at, updated_at`

// Create persiste una categoría. El índice único sobre lower(name) se traduce a ErrDuplicateName.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, code, name, commission_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Code, c.Name, nullRate(c.CommissionRate), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Fail(domain.ErrDuplicateName, "name", c.Name)
		}
		return storeErr("insert category", err)
	}
	return nil
}

// Update reemplaza nombre, código y tasa directa.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET code = $2, name = $3, commission_rate = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Code, c.Name, nullRate(c.CommissionRate), c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Fail(domain.ErrDuplicateName, "name", c.Name)
		}
		return storeErr("update category", err)
	}
	return mustAffectOne(tag.RowsAffected(), "category_id", c.ID)
}

// GetByID obtiene una categoría por ID (sin subcategorías). nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, "get category", `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
// Serializa las altas de subcategorías concurrentes sobre el mismo padre.
func (r *CategoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, "lock category", `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, "get category by name", `SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1)`, name)
}

// List devuelve todas las categorías por nombre con sus subcategorías ordenadas.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY lower(name)`)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	var list []*entity.Category
	byID := map[string]*entity.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		c.SubCategories = []entity.SubCategory{}
		list = append(list, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list categories", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	subRows, err := r.q.Query(ctx, `SELECT `+subCategoryColumns+` FROM subcategories ORDER BY lower(name)`)
	if err != nil {
		return nil, storeErr("list subcategories", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		s, err := scanSubCategory(subRows)
		if err != nil {
			return nil, storeErr("scan subcategory", err)
		}
		if parent, ok := byID[s.CategoryID]; ok {
			parent.SubCategories = append(parent.SubCategories, *s)
		}
	}
	return list, storeErr("list subcategories", subRows.Err())
}

func (r *CategoryRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		c    entity.Category
		rate decimal.NullDecimal
	)
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &rate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if rate.Valid {
		v := rate.Decimal
		c.CommissionRate = &v
	}
	return &c, nil
}

func nullRate(r *decimal.Decimal) decimal.NullDecimal {
	if r == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *r, Valid: true}
}

// mustAffectOne devuelve ErrNotFound cuando un UPDATE no tocó filas.
func mustAffectOne(affected int64, kind, id string) error {
	if affected == 0 {
		return domain.Fail(domain.ErrNotFound, kind, id)
	}
	if affected > 1 {
		return fmt.Errorf("%w: %d filas afectadas para %s", domain.ErrStoreFailure, affected, id)
	}
	return nil
}
