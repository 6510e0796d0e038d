package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var _ repository.SubCategoryRepository = (*SubCategoryRepo)(nil)

// SubCategoryRepo implementación del puerto SubCategoryRepository sobre PostgreSQL.
type SubCategoryRepo struct {
	q Querier
}

// NewSubCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubCategoryRepository(q Querier) *SubCategoryRepo {
	return &SubCategoryRepo{q: q}
}

const subCategoryColumns = `id, category_id, name, commission_rate, created_at, updated_at`

// Create persiste una subcategoría; el nombre es único dentro del padre.
func (r *SubCategoryRepo) Create(ctx context.Context, s *entity.SubCategory) error {
	query := `
		INSERT INTO subcategories (id, category_id, name, commission_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CategoryID, s.Name, s.CommissionRate, s.CreatedAt, s.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.Fail(domain.ErrDuplicateName, "name", s.Name)
	case isForeignKeyViolation(err):
		return domain.Fail(domain.ErrNotFound, "category_id", s.CategoryID)
	default:
		return storeErr("insert subcategory", err)
	}
}

// Update reemplaza nombre y tasa.
func (r *SubCategoryRepo) Update(ctx context.Context, s *entity.SubCategory) error {
	query := `UPDATE subcategories SET name = $2, commission_rate = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.CommissionRate, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Fail(domain.ErrDuplicateName, "name", s.Name)
		}
		return storeErr("update subcategory", err)
	}
	return mustAffectOne(tag.RowsAffected(), "subcategory_id", s.ID)
}

// GetByID obtiene una subcategoría por ID. nil si no existe.
func (r *SubCategoryRepo) GetByID(ctx context.Context, id string) (*entity.SubCategory, error) {
	s, err := scanSubCategory(r.q.QueryRow(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get subcategory", err)
	}
	return s, nil
}

// GetByName busca dentro de la categoría sin distinguir mayúsculas.
func (r *SubCategoryRepo) GetByName(ctx context.Context, name, categoryID string) (*entity.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + ` FROM subcategories WHERE category_id = $1 AND lower(name) = lower($2)`
	s, err := scanSubCategory(r.q.QueryRow(ctx, query, categoryID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get subcategory by name", err)
	}
	return s, nil
}

// ListByCategory subcategorías de la categoría ordenadas por nombre.
func (r *SubCategoryRepo) ListByCategory(ctx context.Context, categoryID string) ([]entity.SubCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE category_id = $1 ORDER BY lower(name)`, categoryID)
	if err != nil {
		return nil, storeErr("list subcategories", err)
	}
	defer rows.Close()
	list := []entity.SubCategory{}
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, storeErr("scan subcategory", err)
		}
		list = append(list, *s)
	}
	return list, storeErr("list subcategories", rows.Err())
}

// CountByCategory número de subcategorías de la categoría.
func (r *SubCategoryRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM subcategories WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, storeErr("count subcategories", err)
	}
	return n, nil
}

func scanSubCategory(row pgx.Row) (*entity.SubCategory, error) {
	var s entity.SubCategory
	if err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.CommissionRate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
