// Package sales registra ventas: resuelve la tasa vigente, congela la comisión y persiste
// venta y auditoría en una sola operación atómica.
package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/commission"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/pkg/logger"
)

// Config reglas configurables del registro.
type Config struct {
	PaymentTypes []string // por defecto Cash y Card
}

// Recorder caso de uso de registro de ventas.
type Recorder struct {
	users        UserFinder
	rates        RateResolver
	saleRepo     repository.SaleRepository
	paymentTypes []string
	log          *logger.Logger
	now          func() time.Time
}

// NewRecorder construye el caso de uso. log puede ser nil.
func NewRecorder(
	users UserFinder,
	rates RateResolver,
	saleRepo repository.SaleRepository,
	cfg Config,
	log *logger.Logger,
) *Recorder {
	pts := cfg.PaymentTypes
	if len(pts) == 0 {
		pts = []string{entity.PaymentCash, entity.PaymentCard}
	}
	return &Recorder{
		users:        users,
		rates:        rates,
		saleRepo:     saleRepo,
		paymentTypes: pts,
		log:          logger.OrNop(log).Named("sales"),
		now:          time.Now,
	}
}

// PaymentTypes medios de pago aceptados.
func (uc *Recorder) PaymentTypes() []string {
	return append([]string(nil), uc.paymentTypes...)
}

// LogSale registra una venta del usuario userID.
//
// Pasos:
//  1. Validar monto (> 0, máx. 2 decimales), medio de pago y destino.
//  2. Resolver el usuario (ErrUserNotFound).
//  3. Resolver la tasa vigente (ErrNotFound / ErrNotCommissionable).
//  4. Rechazar tasas no positivas (ErrZeroRate).
//  5. Comisión = Monto × Tasa, congelada en la venta.
//  6. Insertar venta + auditoría de forma atómica.
func (uc *Recorder) LogSale(ctx context.Context, userID string, in dto.LogSaleRequest) (*dto.SaleResponse, error) {
	target := entity.SaleTarget{Kind: entity.TargetKind(strings.ToLower(strings.TrimSpace(in.TargetKind))), ID: strings.TrimSpace(in.TargetID)}
	if !target.Valid() {
		return nil, domain.Fail(domain.ErrInvalidInput, "target", in.TargetKind+":"+in.TargetID)
	}
	if !commission.ValidAmount(in.Amount) {
		return nil, domain.Fail(domain.ErrInvalidInput, "amount", in.Amount.String())
	}
	paymentType, ok := uc.matchPaymentType(in.PaymentType)
	if !ok {
		return nil, domain.Fail(domain.ErrInvalidInput, "payment_type", in.PaymentType)
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, uc.fail(err, userID)
	}
	if user == nil {
		return nil, uc.fail(domain.Fail(domain.ErrUserNotFound, "user_id", userID), userID)
	}

	res, err := uc.rates.ResolveRate(ctx, target)
	if err != nil {
		return nil, uc.fail(err, userID)
	}
	if !res.Rate.IsPositive() {
		return nil, uc.fail(domain.Fail(domain.ErrZeroRate, "target_id", target.ID), userID)
	}

	employeeID := user.EmployeeID
	if employeeID == "" {
		employeeID = user.ID
	}
	performedBy := user.Email
	if performedBy == "" {
		performedBy = user.ID
	}

	now := uc.now().UTC()
	sale := &entity.Sale{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		EmployeeID:     employeeID,
		Target:         target,
		CategoryID:     res.CategoryID,
		Amount:         in.Amount,
		CommissionRate: res.Rate,
		Commission:     commission.Calculate(in.Amount, res.Rate),
		PaymentType:    paymentType,
		TrackingNumber: strings.TrimSpace(in.TrackingNumber),
		Description:    strings.TrimSpace(in.Description),
		CreatedAt:      now,
	}
	entry := audit.New(
		audit.SaleLogged(res.CategoryName, res.SubCategoryName, sale.Amount, sale.Commission, sale.PaymentType, sale.TrackingNumber),
		performedBy,
		now,
	)

	if err := uc.saleRepo.Insert(ctx, sale, entry); err != nil {
		return nil, uc.fail(err, userID)
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("user_id", user.ID).
		Str("target", string(target.Kind)+":"+target.ID).
		Str("amount", sale.Amount.String()).
		Str("commission", sale.Commission.String()).
		Msg("venta registrada")

	return &dto.SaleResponse{
		ID:              sale.ID,
		UserID:          sale.UserID,
		EmployeeID:      sale.EmployeeID,
		TargetKind:      string(sale.Target.Kind),
		TargetID:        sale.Target.ID,
		CategoryID:      sale.CategoryID,
		CategoryName:    res.CategoryName,
		SubCategoryName: res.SubCategoryName,
		Amount:          sale.Amount,
		CommissionRate:  sale.CommissionRate,
		Commission:      sale.Commission,
		PaymentType:     sale.PaymentType,
		TrackingNumber:  sale.TrackingNumber,
		Description:     sale.Description,
		Date:            sale.CreatedAt,
	}, nil
}

// matchPaymentType compara sin distinguir mayúsculas y devuelve la forma configurada.
func (uc *Recorder) matchPaymentType(pt string) (string, bool) {
	pt = strings.TrimSpace(pt)
	for _, allowed := range uc.paymentTypes {
		if strings.EqualFold(pt, allowed) {
			return allowed, true
		}
	}
	return "", false
}

// fail registra el error y lo devuelve sin modificar.
func (uc *Recorder) fail(err error, userID string) error {
	ev := uc.log.Error()
	var f *domain.Failure
	if errors.As(err, &f) {
		ev = uc.log.Warn()
	}
	ev.Err(err).Str("user_id", userID).Msg("no se pudo registrar la venta")
	return err
}
