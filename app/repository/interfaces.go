package repository

import (
	"context"
	"errors"
	"time"

	"github.com/appfolio/showcase-api/app/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("repository: duplicate key")
)

// PlanUpdate is the set of plan fields written by a completed payment.
type PlanUpdate struct {
	Plan        string
	Status      string
	PurchasedAt time.Time
	ValidUntil  *time.Time
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetBySubject(ctx context.Context, subject string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// FindBySubjectOrUsername returns the first account matching either key.
	FindBySubjectOrUsername(ctx context.Context, subject, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	// UpdatePlan writes only the plan fields, in a single statement.
	UpdatePlan(ctx context.Context, id string, update PlanUpdate) error
}

// ApplicationRepository defines the interface for application persistence.
// Applications are always read and written as whole documents.
type ApplicationRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error)
	ListPublicByOwner(ctx context.Context, ownerID string) ([]models.Application, error)
	GetOwned(ctx context.Context, id, ownerID string) (*models.Application, error)
	GetPublicBySlug(ctx context.Context, ownerID, slug string) (*models.Application, error)
	SlugExists(ctx context.Context, ownerID, slug string) (bool, error)
	Create(ctx context.Context, app *models.Application) error
	Save(ctx context.Context, app *models.Application) error
}

// Repositories bundles the repositories of one storage backend.
type Repositories struct {
	Account     AccountRepository
	Application ApplicationRepository
}

var publicVisibilities = []string{models.VISIBILITY_PUBLIC, models.VISIBILITY_UNLISTED}
