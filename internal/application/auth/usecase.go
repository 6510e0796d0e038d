package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/pkg/jwt"
	"github.com/shayar/CommissionApp/pkg/logger"
)

// activityInterval intervalo mínimo entre dos registros de actividad del mismo usuario.
const activityInterval = time.Minute

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TxRunner ejecuta fn en una transacción con los repos de identidad y bitácora.
type TxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tx       TxRunner
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. log puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, tx TxRunner, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tx:       tx,
		jwtCfg:   jwtCfg,
		log:      logger.OrNop(log).Named("auth"),
		now:      time.Now,
	}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if role != entity.RoleAdmin && role != entity.RoleEmployee {
		return nil, domain.Fail(domain.ErrInvalidInput, "role", role)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		EmployeeID:   strings.TrimSpace(in.EmployeeID),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		Status:       entity.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role).Msg("usuario registrado")
	return ToUserResponse(user), nil
}

// Login verifica email/password, registra la actividad (máx. una vez por minuto),
// genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserActive {
		return nil, domain.ErrForbidden
	}

	if err := uc.recordActivity(ctx, user); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("registrar actividad de login")
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// recordActivity actualiza LastLoginAt y escribe la auditoría en la misma transacción.
func (uc *AuthUseCase) recordActivity(ctx context.Context, user *entity.User) error {
	now := uc.now().UTC()
	if user.LastLoginAt != nil && now.Sub(*user.LastLoginAt) < activityInterval {
		return nil
	}
	err := uc.tx.RunIdentity(ctx, func(userRepo repository.UserRepository, auditRepo repository.AuditRepository) error {
		if err := userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			return err
		}
		_, err := audit.NewTrail(auditRepo).Record(ctx, audit.UserActivity(user.Email), user.Email)
		return err
	})
	if err != nil {
		return err
	}
	user.LastLoginAt = &now
	return nil
}

// ToUserResponse convierte la entidad en su DTO público.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		EmployeeID:  u.EmployeeID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
