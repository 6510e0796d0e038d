// Package audit implementa la bitácora append-only: cada mutación escribe exactamente
// una entrada dentro de su misma transacción.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/pkg/money"
)

// Trail escribe entradas sobre un AuditRepository (normalmente atado a una tx).
type Trail struct {
	repo repository.AuditRepository
	now  func() time.Time
}

// NewTrail construye la bitácora sobre el repositorio dado.
func NewTrail(repo repository.AuditRepository) *Trail {
	return &Trail{repo: repo, now: time.Now}
}

// Record agrega una entrada con id nuevo y fecha UTC.
func (t *Trail) Record(ctx context.Context, action, performedBy string) (*entity.Audit, error) {
	entry := New(action, performedBy, t.now())
	if err := t.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	return entry, nil
}

// New construye una entrada sin persistirla (el registrador de ventas la inserta junto a la venta).
func New(action, performedBy string, at time.Time) *entity.Audit {
	return &entity.Audit{
		ID:          uuid.NewString(),
		Action:      action,
		PerformedBy: performedBy,
		CreatedAt:   at.UTC(),
	}
}

// ── Lectura (solo admin) ──────────────────────────────────────────────────────

// ListUseCase lectura paginada de la bitácora.
type ListUseCase struct {
	repo repository.AuditRepository
}

// NewListUseCase construye el caso de uso de lectura.
func NewListUseCase(repo repository.AuditRepository) *ListUseCase {
	return &ListUseCase{repo: repo}
}

// List devuelve las entradas más recientes primero. limit se acota a [1,200].
func (uc *ListUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		return nil, domain.Fail(domain.ErrInvalidInput, "offset", fmt.Sprint(offset))
	}
	return uc.repo.List(ctx, limit, offset)
}

// ── Mensajes ──────────────────────────────────────────────────────────────────

var fmtr = money.Default()

// CategoryCreated "Category created: <name> (Rate: <pct>)".
func CategoryCreated(name string, rate *decimal.Decimal) string {
	return fmt.Sprintf("Category created: %s (Rate: %s)", name, fmtr.Percent(rate))
}

// CategoryUpdated "Category updated: <name>".
func CategoryUpdated(name string) string {
	return "Category updated: " + name
}

// SubCategoryCreated "SubCategory created: <name> (Rate: <pct>) under Category <parent>".
func SubCategoryCreated(name string, rate decimal.Decimal, parent string) string {
	return fmt.Sprintf("SubCategory created: %s (Rate: %s) under Category %s", name, fmtr.Percent(&rate), parent)
}

// SubCategoryUpdated "SubCategory updated: <name>".
func SubCategoryUpdated(name string) string {
	return "SubCategory updated: " + name
}

// SaleLogged resume destino, monto, comisión, medio de pago y guía si existe.
func SaleLogged(categoryName, subCategoryName string, amount, commission decimal.Decimal, paymentType, trackingNumber string) string {
	var b strings.Builder
	if subCategoryName != "" {
		fmt.Fprintf(&b, "Sale under SubCategory: %s - %s.", categoryName, subCategoryName)
	} else {
		fmt.Fprintf(&b, "Sale under Category: %s.", categoryName)
	}
	fmt.Fprintf(&b, " Amt: %s, Comm: %s. Type: %s", fmtr.Amount(amount), fmtr.Amount(commission), paymentType)
	if trackingNumber != "" {
		fmt.Fprintf(&b, ", Tracking: %s", trackingNumber)
	}
	return b.String()
}

// UserActivity "User login/activity: <email>".
func UserActivity(email string) string {
	return "User login/activity: " + email
}
