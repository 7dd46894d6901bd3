package repository

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

// MemoryUserRepository is a map-backed repository with the same uniqueness
// semantics as the postgres one, including conflict detection on insert. Used
// by tests and local experiments; it is not wired into the server.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) FindActiveByID(_ context.Context, id string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || !live(u) {
		return model.User{}, notFound(id)
	}
	return u, nil
}

func (r *MemoryUserRepository) FindActiveByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.findByEmailLocked(email); ok {
		return u, nil
	}
	return model.User{}, notFound(email)
}

func (r *MemoryUserRepository) FindActiveByNationalID(_ context.Context, nationalID string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.findByNationalIDLocked(nationalID); ok {
		return u, nil
	}
	return model.User{}, notFound(nationalID)
}

func (r *MemoryUserRepository) Insert(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByEmailLocked(u.Email); taken {
		return model.User{}, apierror.New(apierror.CodeEmailTaken, "email already registered", "", http.StatusConflict)
	}
	if u.NationalID != nil {
		if _, taken := r.findByNationalIDLocked(*u.NationalID); taken {
			return model.User{}, apierror.New(apierror.CodeNationalIDTaken, "national id already registered", "", http.StatusConflict)
		}
	}

	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok || !live(stored) {
		return model.User{}, notFound(u.ID)
	}

	stored.Name = u.Name
	stored.Pronoun = u.Pronoun
	stored.Email = u.Email
	stored.Phone = u.Phone
	stored.BirthDate = u.BirthDate
	stored.NationalID = u.NationalID
	stored.UpdatedAt = u.UpdatedAt
	r.users[u.ID] = stored

	return stored, nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || !live(u) {
		return notFound(id)
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) SoftDelete(_ context.Context, id string, deletedBy string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || !live(u) {
		return model.User{}, notFound(id)
	}

	now := time.Now().UTC()
	u.Active = false
	u.DeletedAt = &now
	u.DeletedBy = &deletedBy
	u.UpdatedAt = now
	r.users[id] = u

	return u, nil
}

func (r *MemoryUserRepository) DeletePermanently(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return notFound(id)
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, page int, limit int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		if live(u) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []model.User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	return all[start:end], total, nil
}

func (r *MemoryUserRepository) findByEmailLocked(email string) (model.User, bool) {
	for _, u := range r.users {
		if live(u) && u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

func (r *MemoryUserRepository) findByNationalIDLocked(nationalID string) (model.User, bool) {
	for _, u := range r.users {
		if live(u) && u.NationalID != nil && *u.NationalID == nationalID {
			return u, true
		}
	}
	return model.User{}, false
}

func live(u model.User) bool {
	return u.Active && u.DeletedAt == nil
}

func notFound(details string) *apierror.APIError {
	return apierror.New(apierror.CodeNotFound, "user not found", details, http.StatusNotFound)
}
