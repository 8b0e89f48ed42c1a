package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/appfolio/showcase-api/app/models"
)

// memoryStore keeps accounts and applications in process memory. Every read
// and write goes through a clone, so callers never share state with the store
// or with each other.
type memoryStore struct {
	mu       sync.RWMutex
	seq      int64
	accounts map[string]*models.Account
	apps     map[string]*memoryApp
}

type memoryApp struct {
	seq int64
	app *models.Application
}

type memoryAccountRepository struct{ s *memoryStore }

type memoryApplicationRepository struct{ s *memoryStore }

// NewMemoryRepositories creates a repository set without external storage,
// used for local development and tests.
func NewMemoryRepositories() *Repositories {
	s := &memoryStore{
		accounts: make(map[string]*models.Account),
		apps:     make(map[string]*memoryApp),
	}
	return &Repositories{
		Account:     &memoryAccountRepository{s: s},
		Application: &memoryApplicationRepository{s: s},
	}
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.match(func(a *models.Account) bool { return a.ID == id })
}

func (r *memoryAccountRepository) GetBySubject(ctx context.Context, subject string) (*models.Account, error) {
	if subject == "" {
		return nil, ErrNotFound
	}
	return r.match(func(a *models.Account) bool { return a.Subject() == subject })
}

func (r *memoryAccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.match(func(a *models.Account) bool { return a.Username == username })
}

func (r *memoryAccountRepository) FindBySubjectOrUsername(ctx context.Context, subject, username string) (*models.Account, error) {
	return r.match(func(a *models.Account) bool {
		return (subject != "" && a.Subject() == subject) || a.Username == username
	})
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.accounts {
		if existing.Username == account.Username {
			return ErrDuplicate
		}
		if account.Subject() != "" && existing.Subject() == account.Subject() {
			return ErrDuplicate
		}
	}
	account.PrepareCreate(time.Now())
	if _, ok := r.s.accounts[account.ID]; ok {
		return ErrDuplicate
	}
	r.s.accounts[account.ID] = account.Clone()
	return nil
}

func (r *memoryAccountRepository) UpdatePlan(ctx context.Context, id string, update PlanUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	purchased := update.PurchasedAt
	stored.Plan = update.Plan
	stored.PlanStatus = update.Status
	stored.PlanPurchasedAt = &purchased
	if update.ValidUntil != nil {
		until := *update.ValidUntil
		stored.PlanValidUntil = &until
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryAccountRepository) match(pred func(*models.Account) bool) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if pred(a) {
			return a.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryApplicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.OwnerID == ownerID }), nil
}

func (r *memoryApplicationRepository) ListPublicByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool {
		return a.OwnerID == ownerID && a.IsPubliclyVisible()
	}), nil
}

func (r *memoryApplicationRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entry, ok := r.s.apps[id]
	if !ok || entry.app.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return entry.app.Clone(), nil
}

func (r *memoryApplicationRepository) GetPublicBySlug(ctx context.Context, ownerID, slug string) (*models.Application, error) {
	apps := r.list(func(a *models.Application) bool {
		return a.OwnerID == ownerID && a.Slug == slug && a.IsPubliclyVisible()
	})
	if len(apps) == 0 {
		return nil, ErrNotFound
	}
	return &apps[0], nil
}

func (r *memoryApplicationRepository) SlugExists(ctx context.Context, ownerID, slug string) (bool, error) {
	apps := r.list(func(a *models.Application) bool { return a.OwnerID == ownerID && a.Slug == slug })
	return len(apps) > 0, nil
}

func (r *memoryApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, entry := range r.s.apps {
		if entry.app.OwnerID == app.OwnerID && entry.app.Slug == app.Slug {
			return ErrDuplicate
		}
	}
	app.PrepareCreate(time.Now())
	if _, ok := r.s.apps[app.ID]; ok {
		return ErrDuplicate
	}
	r.s.seq++
	r.s.apps[app.ID] = &memoryApp{seq: r.s.seq, app: app.Clone()}
	return nil
}

func (r *memoryApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.apps[app.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range r.s.apps {
		if id != app.ID && other.app.OwnerID == app.OwnerID && other.app.Slug == app.Slug {
			return ErrDuplicate
		}
	}
	app.UpdatedAt = time.Now()
	entry.app = app.Clone()
	return nil
}

// list returns matching applications newest first.
func (r *memoryApplicationRepository) list(pred func(*models.Application) bool) []models.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*memoryApp, 0)
	for _, entry := range r.s.apps {
		if pred(entry.app) {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].app, matched[j].app
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	out := make([]models.Application, len(matched))
	for i, entry := range matched {
		out[i] = *entry.app.Clone()
	}
	return out
}
