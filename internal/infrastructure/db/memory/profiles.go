package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.UserProfile)}
}

func (r *ProfileRepository) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) Create(_ context.Context, p *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UID]; ok {
		return domain.ErrProfileExists
	}
	r.profiles[p.UID] = *p
	return nil
}

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account // by email
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &a, nil
}

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Email]; ok {
		return domain.ErrEmailInUse
	}
	r.accounts[a.Email] = *a
	return nil
}

type AreaRepository struct {
	mu    sync.RWMutex
	areas []domain.Area
}

// NewAreaRepository seeds the repository with one area per name.
func NewAreaRepository(names ...string) *AreaRepository {
	r := &AreaRepository{}
	_, _ = r.InsertNames(context.Background(), names)
	return r
}

// List returns all areas ordered by name.
func (r *AreaRepository) List(_ context.Context) ([]domain.Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Area, len(r.areas))
	copy(out, r.areas)
	return out, nil
}

// InsertNames adds names not yet present and returns how many were added.
func (r *AreaRepository) InsertNames(_ context.Context, names []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, name := range names {
		if r.has(name) {
			continue
		}
		r.areas = append(r.areas, domain.Area{ID: uuid.NewString(), Name: name})
		inserted++
	}
	sort.Slice(r.areas, func(i, j int) bool {
		return strings.ToLower(r.areas[i].Name) < strings.ToLower(r.areas[j].Name)
	})
	return inserted, nil
}

func (r *AreaRepository) has(name string) bool {
	for _, a := range r.areas {
		if a.Name == name {
			return true
		}
	}
	return false
}
