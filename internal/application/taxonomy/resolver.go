// Package taxonomy administra categorías y subcategorías y resuelve la tasa de comisión
// vigente de un destino de venta.
//
// Regla de exclusividad: una categoría tiene tasa directa solo mientras no tenga
// subcategorías. Todas las mutaciones corren en una transacción junto con su auditoría.
package taxonomy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/commission"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/pkg/logger"
)

// Resolution tasa vigente de un destino y los nombres a mostrar.
type Resolution struct {
	Rate            decimal.Decimal
	CategoryID      string // categoría de agregación
	CategoryName    string
	SubCategoryName string // vacío en ventas directas
}

// RateResolver casos de uso de la taxonomía comisionable.
type RateResolver struct {
	tx              TxRunner
	categoryRepo    repository.CategoryRepository
	subCategoryRepo repository.SubCategoryRepository
	log             *logger.Logger
}

// NewRateResolver construye el caso de uso. log puede ser nil.
func NewRateResolver(
	tx TxRunner,
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
	log *logger.Logger,
) *RateResolver {
	return &RateResolver{
		tx:              tx,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		log:             logger.OrNop(log).Named("taxonomy"),
	}
}

// ── Categorías ────────────────────────────────────────────────────────────────

// AddCategory crea una categoría con tasa directa opcional.
func (uc *RateResolver) AddCategory(ctx context.Context, in dto.CategoryRequest, performedBy string) (*dto.CategoryResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	category := &entity.Category{
		ID:             uuid.NewString(),
		Code:           strings.TrimSpace(in.Code),
		Name:           name,
		CommissionRate: in.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.RunTaxonomy(ctx, func(
		categoryRepo repository.CategoryRepository,
		_ repository.SubCategoryRepository,
		auditRepo repository.AuditRepository,
	) error {
		existing, err := categoryRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Fail(domain.ErrDuplicateName, "name", name)
		}
		if err := checkOptionalRate(in.CommissionRate); err != nil {
			return err
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			return err
		}
		_, err = audit.NewTrail(auditRepo).Record(ctx, audit.CategoryCreated(category.Name, category.CommissionRate), performedBy)
		return err
	})
	if err != nil {
		uc.logFailure(err, "alta de categoría", name)
		return nil, err
	}

	uc.log.Info().Str("category_id", category.ID).Str("name", name).Str("by", performedBy).Msg("categoría creada")
	return toCategoryResponse(category), nil
}

// UpdateCategory cambia nombre, código y tasa directa. Una categoría con subcategorías
// no admite tasa directa.
func (uc *RateResolver) UpdateCategory(ctx context.Context, id string, in dto.CategoryRequest, performedBy string) (*dto.CategoryResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	var updated *entity.Category
	err = uc.tx.RunTaxonomy(ctx, func(
		categoryRepo repository.CategoryRepository,
		subCategoryRepo repository.SubCategoryRepository,
		auditRepo repository.AuditRepository,
	) error {
		category, err := categoryRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.Fail(domain.ErrNotFound, "category_id", id)
		}
		existing, err := categoryRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != category.ID {
			return domain.Fail(domain.ErrDuplicateName, "name", name)
		}
		subs, err := subCategoryRepo.ListByCategory(ctx, category.ID)
		if err != nil {
			return err
		}
		if len(subs) > 0 && in.CommissionRate != nil {
			return domain.Fail(domain.ErrInvariantViolation, "commission_rate", in.CommissionRate.String())
		}
		if err := checkOptionalRate(in.CommissionRate); err != nil {
			return err
		}

		category.Name = name
		category.Code = strings.TrimSpace(in.Code)
		category.CommissionRate = in.CommissionRate
		category.UpdatedAt = time.Now().UTC()
		if err := categoryRepo.Update(ctx, category); err != nil {
			return err
		}
		if _, err := audit.NewTrail(auditRepo).Record(ctx, audit.CategoryUpdated(category.Name), performedBy); err != nil {
			return err
		}
		category.SubCategories = subs
		updated = category
		return nil
	})
	if err != nil {
		uc.logFailure(err, "actualización de categoría", id)
		return nil, err
	}

	uc.log.Info().Str("category_id", id).Str("by", performedBy).Msg("categoría actualizada")
	return toCategoryResponse(updated), nil
}

// ── Subcategorías ─────────────────────────────────────────────────────────────

// AddSubCategory crea una subcategoría. Si es la primera de la categoría y esta tenía
// tasa directa, la tasa se borra en la misma transacción.
func (uc *RateResolver) AddSubCategory(ctx context.Context, categoryID string, in dto.SubCategoryRequest, performedBy string) (*dto.SubCategoryResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sub := &entity.SubCategory{
		ID:             uuid.NewString(),
		Name:           name,
		CommissionRate: in.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	cleared := false
	err = uc.tx.RunTaxonomy(ctx, func(
		categoryRepo repository.CategoryRepository,
		subCategoryRepo repository.SubCategoryRepository,
		auditRepo repository.AuditRepository,
	) error {
		parent, err := categoryRepo.GetByIDForUpdate(ctx, categoryID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.Fail(domain.ErrNotFound, "category_id", categoryID)
		}
		// el id del parámetro puede apuntar a un buffer reutilizado por el transporte
		sub.CategoryID = parent.ID
		if !commission.ValidRate(in.CommissionRate) {
			return domain.Fail(domain.ErrInvalidRate, "commission_rate", in.CommissionRate.String())
		}

		count, err := subCategoryRepo.CountByCategory(ctx, parent.ID)
		if err != nil {
			return err
		}
		if count == 0 && parent.HasRate() {
			parent.ClearRate()
			parent.UpdatedAt = now
			if err := categoryRepo.Update(ctx, parent); err != nil {
				return err
			}
			cleared = true
		}

		existing, err := subCategoryRepo.GetByName(ctx, name, parent.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Fail(domain.ErrDuplicateName, "name", name)
		}
		if err := subCategoryRepo.Create(ctx, sub); err != nil {
			return err
		}
		_, err = audit.NewTrail(auditRepo).Record(ctx, audit.SubCategoryCreated(sub.Name, sub.CommissionRate, parent.Name), performedBy)
		return err
	})
	if err != nil {
		uc.logFailure(err, "alta de subcategoría", name)
		return nil, err
	}

	uc.log.Info().
		Str("subcategory_id", sub.ID).
		Str("category_id", sub.CategoryID).
		Bool("parent_rate_cleared", cleared).
		Str("by", performedBy).
		Msg("subcategoría creada")
	out := toSubCategoryResponse(*sub)
	return &out, nil
}

// UpdateSubCategory cambia nombre y tasa de una subcategoría.
func (uc *RateResolver) UpdateSubCategory(ctx context.Context, id string, in dto.SubCategoryRequest, performedBy string) (*dto.SubCategoryResponse, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}

	var updated *entity.SubCategory
	err = uc.tx.RunTaxonomy(ctx, func(
		_ repository.CategoryRepository,
		subCategoryRepo repository.SubCategoryRepository,
		auditRepo repository.AuditRepository,
	) error {
		sub, err := subCategoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.Fail(domain.ErrNotFound, "subcategory_id", id)
		}
		existing, err := subCategoryRepo.GetByName(ctx, name, sub.CategoryID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != sub.ID {
			return domain.Fail(domain.ErrDuplicateName, "name", name)
		}
		if !commission.ValidRate(in.CommissionRate) {
			return domain.Fail(domain.ErrInvalidRate, "commission_rate", in.CommissionRate.String())
		}

		sub.Name = name
		sub.CommissionRate = in.CommissionRate
		sub.UpdatedAt = time.Now().UTC()
		if err := subCategoryRepo.Update(ctx, sub); err != nil {
			return err
		}
		if _, err := audit.NewTrail(auditRepo).Record(ctx, audit.SubCategoryUpdated(sub.Name), performedBy); err != nil {
			return err
		}
		updated = sub
		return nil
	})
	if err != nil {
		uc.logFailure(err, "actualización de subcategoría", id)
		return nil, err
	}

	uc.log.Info().Str("subcategory_id", id).Str("by", performedBy).Msg("subcategoría actualizada")
	out := toSubCategoryResponse(*updated)
	return &out, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// ResolveRate devuelve la tasa vigente del destino: la propia en subcategorías,
// la directa en categorías (ErrNotCommissionable si no tiene).
func (uc *RateResolver) ResolveRate(ctx context.Context, target entity.SaleTarget) (*Resolution, error) {
	if !target.Valid() {
		return nil, domain.Fail(domain.ErrInvalidInput, "target_kind", string(target.Kind))
	}

	if target.Kind == entity.TargetSubCategory {
		sub, err := uc.subCategoryRepo.GetByID(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, domain.Fail(domain.ErrNotFound, "subcategory_id", target.ID)
		}
		parent, err := uc.categoryRepo.GetByID(ctx, sub.CategoryID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.Fail(domain.ErrNotFound, "category_id", sub.CategoryID)
		}
		return &Resolution{
			Rate:            sub.CommissionRate,
			CategoryID:      parent.ID,
			CategoryName:    parent.Name,
			SubCategoryName: sub.Name,
		}, nil
	}

	category, err := uc.categoryRepo.GetByID(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.Fail(domain.ErrNotFound, "category_id", target.ID)
	}
	if !category.HasRate() {
		return nil, domain.Fail(domain.ErrNotCommissionable, "category_id", target.ID)
	}
	return &Resolution{
		Rate:         *category.CommissionRate,
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}, nil
}

// ListCategories devuelve todas las categorías por nombre con sus subcategorías.
func (uc *RateResolver) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// GetCategory devuelve una categoría con sus subcategorías.
func (uc *RateResolver) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.Fail(domain.ErrNotFound, "category_id", id)
	}
	subs, err := uc.subCategoryRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.SubCategories = subs
	return toCategoryResponse(category), nil
}

// CommissionableTargets lista los destinos válidos para registrar ventas:
// categorías con tasa directa y todas las subcategorías.
func (uc *RateResolver) CommissionableTargets(ctx context.Context) ([]dto.CommissionableTargetDTO, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.CommissionableTargetDTO{}
	for _, c := range list {
		if c.HasRate() {
			out = append(out, dto.CommissionableTargetDTO{
				TargetKind:     string(entity.TargetCategory),
				TargetID:       c.ID,
				CategoryName:   c.Name,
				CommissionRate: *c.CommissionRate,
			})
		}
		for _, s := range c.SubCategories {
			out = append(out, dto.CommissionableTargetDTO{
				TargetKind:      string(entity.TargetSubCategory),
				TargetID:        s.ID,
				CategoryName:    c.Name,
				SubCategoryName: s.Name,
				CommissionRate:  s.CommissionRate,
			})
		}
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Fail(domain.ErrInvalidInput, "name", "")
	}
	return name, nil
}

func checkOptionalRate(rate *decimal.Decimal) error {
	if rate != nil && !commission.ValidRate(*rate) {
		return domain.Fail(domain.ErrInvalidRate, "commission_rate", rate.String())
	}
	return nil
}

// logFailure registra los rechazos de negocio como warn y el resto como error.
func (uc *RateResolver) logFailure(err error, op, ref string) {
	var f *domain.Failure
	if errors.As(err, &f) {
		uc.log.Warn().Err(err).Str("ref", ref).Msg(op + " rechazada")
		return
	}
	uc.log.Error().Err(err).Str("ref", ref).Msg(op + " fallida")
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	subs := make([]dto.SubCategoryResponse, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, toSubCategoryResponse(s))
	}
	return &dto.CategoryResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		CommissionRate: c.CommissionRate,
		SubCategories:  subs,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toSubCategoryResponse(s entity.SubCategory) dto.SubCategoryResponse {
	return dto.SubCategoryResponse{
		ID:             s.ID,
		CategoryID:     s.CategoryID,
		Name:           s.Name,
		CommissionRate: s.CommissionRate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
