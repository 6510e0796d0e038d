// Package memory implementa todos los puertos de persistencia en memoria (tests y STORE_DRIVER=memory).
//
// Las transacciones trabajan sobre una copia del estado que se publica solo si el callback
// termina sin error, así que un fallo a mitad de camino no deja escrituras parciales.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu     sync.RWMutex
	data   *state
	faults map[string]error
}

type state struct {
	categories    map[string]entity.Category // sin SubCategories
	subcategories map[string]entity.SubCategory
	sales         []entity.Sale
	audits        []entity.Audit
	users         map[string]entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		data: &state{
			categories:    map[string]entity.Category{},
			subcategories: map[string]entity.SubCategory{},
			users:         map[string]entity.User{},
		},
		faults: map[string]error{},
	}
}

// FailOn hace que la operación op (ej. "audit.append", "sale.insert") devuelva err
// hasta que se llame a FailOn(op, nil).
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	return s.faults[op]
}

func (st *state) clone() *state {
	c := &state{
		categories:    make(map[string]entity.Category, len(st.categories)),
		subcategories: make(map[string]entity.SubCategory, len(st.subcategories)),
		sales:         append([]entity.Sale(nil), st.sales...),
		audits:        append([]entity.Audit(nil), st.audits...),
		users:         make(map[string]entity.User, len(st.users)),
	}
	for k, v := range st.categories {
		v.CommissionRate = copyRate(v.CommissionRate)
		c.categories[k] = v
	}
	for k, v := range st.subcategories {
		c.subcategories[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

func copyRate(r *decimal.Decimal) *decimal.Decimal {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

// ── Scope: acceso con o sin transacción ───────────────────────────────────────

// scope da acceso al estado. Dentro de una transacción el lock ya está tomado.
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) read(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.data)
}

func (sc scope) write(op string, fn func(st *state) error) error {
	if sc.tx != nil {
		if err := sc.store.fault(op); err != nil {
			return err
		}
		return fn(sc.tx)
	}
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	if err := sc.store.fault(op); err != nil {
		return err
	}
	return fn(sc.store.data)
}

// ── Repositorios fuera de transacción ─────────────────────────────────────────

// Categories repositorio de categorías sobre el store.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{scope{store: s}} }

// SubCategories repositorio de subcategorías sobre el store.
func (s *Store) SubCategories() *SubCategoryRepo { return &SubCategoryRepo{scope{store: s}} }

// Sales repositorio del libro de ventas sobre el store.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{scope{store: s}} }

// Reports consultas de rankings sobre el store.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{scope{store: s}} }

// Audits bitácora sobre el store.
func (s *Store) Audits() *AuditRepo { return &AuditRepo{scope{store: s}} }

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{scope{store: s}} }

// ── TxRunner ──────────────────────────────────────────────────────────────────

// run serializa la transacción, trabaja sobre una copia y la publica si fn no falla.
func (s *Store) run(fn func(sc scope) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(scope{store: s, tx: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// RunTaxonomy implementa taxonomy.TxRunner.
func (s *Store) RunTaxonomy(_ context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return s.run(func(sc scope) error {
		return fn(&CategoryRepo{sc}, &SubCategoryRepo{sc}, &AuditRepo{sc})
	})
}

// RunIdentity implementa auth.TxRunner.
func (s *Store) RunIdentity(_ context.Context, fn func(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return s.run(func(sc scope) error {
		return fn(&UserRepo{sc}, &AuditRepo{sc})
	})
}
