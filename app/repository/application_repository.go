package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/appfolio/showcase-api/app/models"
)

// applicationRepository implements ApplicationRepository on GORM. Embedded
// collections live in JSON columns of the same row.
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new GORM application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// ListByOwner returns the owner's applications, newest first
func (r *applicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&apps).Error
	return apps, translateGormError(err)
}

// ListPublicByOwner returns the applications shown on the owner's public profile
func (r *applicationRepository) ListPublicByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND visibility IN ?", ownerID, publicVisibilities).
		Order("created_at DESC").Find(&apps).Error
	return apps, translateGormError(err)
}

// GetOwned loads an application only if it belongs to ownerID
func (r *applicationRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&app).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &app, nil
}

func (r *applicationRepository) GetPublicBySlug(ctx context.Context, ownerID, slug string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND slug = ? AND visibility IN ?", ownerID, slug, publicVisibilities).
		First(&app).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &app, nil
}

func (r *applicationRepository) SlugExists(ctx context.Context, ownerID, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("owner_id = ? AND slug = ?", ownerID, slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return translateGormError(r.db.WithContext(ctx).Create(app).Error)
}

// Save writes the whole document back. It never inserts: a row that
// vanished or changed owner yields ErrNotFound.
func (r *applicationRepository) Save(ctx context.Context, app *models.Application) error {
	res := r.db.WithContext(ctx).Model(app).
		Where("owner_id = ?", app.OwnerID).
		Select("*").Omit("id", "owner_id", "created_at").
		Updates(app)
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NewRepositories creates the GORM backed repository set
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:     NewAccountRepository(db),
		Application: NewApplicationRepository(db),
	}
}
