package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/appfolio/showcase-api/app/models"
)

// accountRepository implements AccountRepository on GORM
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new GORM account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *accountRepository) GetBySubject(ctx context.Context, subject string) (*models.Account, error) {
	if subject == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "subject_id = ?", subject)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *accountRepository) FindBySubjectOrUsername(ctx context.Context, subject, username string) (*models.Account, error) {
	return r.first(ctx, "subject_id = ? OR username = ?", subject, username)
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translateGormError(r.db.WithContext(ctx).Create(account).Error)
}

func (r *accountRepository) UpdatePlan(ctx context.Context, id string, update PlanUpdate) error {
	updates := map[string]any{
		"plan":              update.Plan,
		"plan_status":       update.Status,
		"plan_purchased_at": update.PurchasedAt,
	}
	if update.ValidUntil != nil {
		updates["plan_valid_until"] = *update.ValidUntil
	}
	return translateGormError(r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error)
}

func (r *accountRepository) first(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where(query, args...).First(&account).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &account, nil
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
