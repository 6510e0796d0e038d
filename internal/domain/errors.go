package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Conjunto cerrado: los adaptadores
// (HTTP, CLI) los distinguen con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrDuplicateName      = errors.New("nombre duplicado")
	ErrInvalidRate        = errors.New("tasa de comisión inválida")
	ErrInvariantViolation = errors.New("la operación rompe la consistencia de la categoría")
	ErrNotCommissionable  = errors.New("la categoría no tiene tasa de comisión")
	ErrZeroRate           = errors.New("la tasa de comisión resuelta no es positiva")
	ErrStoreFailure       = errors.New("fallo de persistencia")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// Failure acompaña a un error de dominio con el campo y valor que lo provocaron.
// errors.Is(f, Kind) sigue funcionando gracias a Unwrap.
type Failure struct {
	Kind  error
	Field string
	Value string
}

// Fail construye un *Failure para el tipo de error indicado.
func Fail(kind error, field, value string) *Failure {
	return &Failure{Kind: kind, Field: field, Value: value}
}

func (f *Failure) Error() string {
	if f.Field == "" {
		return f.Kind.Error()
	}
	return fmt.Sprintf("%s: %s=%q", f.Kind.Error(), f.Field, f.Value)
}

func (f *Failure) Unwrap() error { return f.Kind }

// StoreFailure envuelve un error del driver como ErrStoreFailure conservando la causa.
func StoreFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
