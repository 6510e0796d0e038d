package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.SubCategoryRepository = (*SubCategoryRepo)(nil)
)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct{ sc scope }

// Create inserta la categoría; el nombre es único sin distinguir mayúsculas.
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.sc.write("category.create", func(st *state) error {
		if st.categoryNameTaken(c.Name, "") {
			return domain.Fail(domain.ErrDuplicateName, "name", c.Name)
		}
		v := *c
		v.SubCategories = nil
		v.CommissionRate = copyRate(c.CommissionRate)
		st.categories[c.ID] = v
		return nil
	})
}

// Update reemplaza nombre, código y tasa.
func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.sc.write("category.update", func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.Fail(domain.ErrNotFound, "category_id", c.ID)
		}
		if st.categoryNameTaken(c.Name, c.ID) {
			return domain.Fail(domain.ErrDuplicateName, "name", c.Name)
		}
		v := *c
		v.SubCategories = nil
		v.CommissionRate = copyRate(c.CommissionRate)
		st.categories[c.ID] = v
		return nil
	})
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.sc.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			c.CommissionRate = copyRate(c.CommissionRate)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate en memoria la transacción ya es exclusiva.
func (r *CategoryRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.sc.read(func(st *state) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, name) {
				c.CommissionRate = copyRate(c.CommissionRate)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List devuelve las categorías por nombre con sus subcategorías ordenadas.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.sc.read(func(st *state) error {
		for _, c := range st.categories {
			c := c
			c.CommissionRate = copyRate(c.CommissionRate)
			c.SubCategories = st.subcategoriesOf(c.ID)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, err
}

// SubCategoryRepo implementación en memoria de SubCategoryRepository.
type SubCategoryRepo struct{ sc scope }

// Create inserta la subcategoría; el nombre es único dentro del padre.
func (r *SubCategoryRepo) Create(_ context.Context, s *entity.SubCategory) error {
	return r.sc.write("subcategory.create", func(st *state) error {
		if _, ok := st.categories[s.CategoryID]; !ok {
			return domain.Fail(domain.ErrNotFound, "category_id", s.CategoryID)
		}
		if st.subCategoryNameTaken(s.Name, s.CategoryID, "") {
			return domain.Fail(domain.ErrDuplicateName, "name", s.Name)
		}
		st.subcategories[s.ID] = *s
		return nil
	})
}

// Update reemplaza nombre y tasa.
func (r *SubCategoryRepo) Update(_ context.Context, s *entity.SubCategory) error {
	return r.sc.write("subcategory.update", func(st *state) error {
		if _, ok := st.subcategories[s.ID]; !ok {
			return domain.Fail(domain.ErrNotFound, "subcategory_id", s.ID)
		}
		if st.subCategoryNameTaken(s.Name, s.CategoryID, s.ID) {
			return domain.Fail(domain.ErrDuplicateName, "name", s.Name)
		}
		st.subcategories[s.ID] = *s
		return nil
	})
}

// GetByID obtiene una subcategoría por ID.
func (r *SubCategoryRepo) GetByID(_ context.Context, id string) (*entity.SubCategory, error) {
	var out *entity.SubCategory
	err := r.sc.read(func(st *state) error {
		if s, ok := st.subcategories[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// GetByName busca dentro de la categoría sin distinguir mayúsculas.
func (r *SubCategoryRepo) GetByName(_ context.Context, name, categoryID string) (*entity.SubCategory, error) {
	var out *entity.SubCategory
	err := r.sc.read(func(st *state) error {
		for _, s := range st.subcategories {
			if s.CategoryID == categoryID && strings.EqualFold(s.Name, name) {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// ListByCategory subcategorías de la categoría ordenadas por nombre.
func (r *SubCategoryRepo) ListByCategory(_ context.Context, categoryID string) ([]entity.SubCategory, error) {
	var out []entity.SubCategory
	err := r.sc.read(func(st *state) error {
		out = st.subcategoriesOf(categoryID)
		return nil
	})
	return out, err
}

// CountByCategory número de subcategorías de la categoría.
func (r *SubCategoryRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	list, err := r.ListByCategory(ctx, categoryID)
	return len(list), err
}

// ── helpers de estado ─────────────────────────────────────────────────────────

func (st *state) categoryNameTaken(name, exceptID string) bool {
	for id, c := range st.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (st *state) subCategoryNameTaken(name, categoryID, exceptID string) bool {
	for id, s := range st.subcategories {
		if id != exceptID && s.CategoryID == categoryID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (st *state) subcategoriesOf(categoryID string) []entity.SubCategory {
	out := []entity.SubCategory{}
	for _, s := range st.subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
