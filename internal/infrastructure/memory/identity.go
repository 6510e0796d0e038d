package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shayar/CommissionApp/internal/domain"
	"github.com/shayar/CommissionApp/internal/domain/entity"
	"github.com/shayar/CommissionApp/internal/domain/repository"
)

var (
	_ repository.AuditRepository = (*AuditRepo)(nil)
	_ repository.UserRepository  = (*UserRepo)(nil)
)

// AuditRepo bitácora append-only en memoria.
type AuditRepo struct{ sc scope }

// Append agrega una entrada.
func (r *AuditRepo) Append(_ context.Context, a *entity.Audit) error {
	return r.sc.write("audit.append", func(st *state) error {
		st.audits = append(st.audits, *a)
		return nil
	})
}

// List devuelve las entradas más recientes primero.
func (r *AuditRepo) List(_ context.Context, limit, offset int) ([]*entity.Audit, error) {
	var all []entity.Audit
	err := r.sc.read(func(st *state) error {
		all = append(all, st.audits...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Orden de inserción como desempate: la última escrita va primero.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	out := []*entity.Audit{}
	for i := offset; i < len(all) && len(out) < limit; i++ {
		a := all[i]
		out = append(out, &a)
	}
	return out, nil
}

// LastByActorAction última entrada de un actor con esa acción.
func (r *AuditRepo) LastByActorAction(_ context.Context, performedBy, action string) (*entity.Audit, error) {
	var out *entity.Audit
	err := r.sc.read(func(st *state) error {
		for i := len(st.audits) - 1; i >= 0; i-- {
			a := st.audits[i]
			if a.PerformedBy == performedBy && a.Action == action {
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

// UserRepo usuarios en memoria.
type UserRepo struct{ sc scope }

// Create inserta el usuario; el email es único sin distinguir mayúsculas.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.sc.write("user.create", func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail obtiene un usuario por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetByIDs resuelve varios usuarios; los ids inexistentes se omiten.
func (r *UserRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	err := r.sc.read(func(st *state) error {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out[id] = &u
			}
		}
		return nil
	})
	return out, err
}

// UpdateLastLogin registra la fecha del último acceso.
func (r *UserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.sc.write("user.update_last_login", func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.Fail(domain.ErrUserNotFound, "user_id", id)
		}
		at = at.UTC()
		u.LastLoginAt = &at
		u.UpdatedAt = at
		st.users[id] = u
		return nil
	})
}

// List devuelve todos los usuarios ordenados por nombre y luego email.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.sc.read(func(st *state) error {
		out = make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].FullName), strings.ToLower(out[j].FullName)
		if ni != nj {
			return ni < nj
		}
		return strings.ToLower(out[i].Email) < strings.ToLower(out[j].Email)
	})
	return out, err
}
