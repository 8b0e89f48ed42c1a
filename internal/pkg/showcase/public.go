package showcase

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/cache"
)

type ProfilePage struct {
	User models.PublicAccount `json:"user"`
	Apps []models.Application `json:"apps"`
}

type ApplicationPage struct {
	User models.PublicAccount `json:"user"`
	App  *models.Application  `json:"app"`
}

// PublicProfile lists the PUBLIC and UNLISTED applications of handle.
func (s *Service) PublicProfile(ctx context.Context, handle string) (*ProfilePage, error) {
	username := models.NormalizeUsername(handle)
	key := cache.ProfileKey(username)

	var page ProfilePage
	if s.cached(ctx, key, &page) {
		return &page, nil
	}

	account, err := s.publicAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListPublicByOwner(ctx, account.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to list apps", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	for i := range apps {
		apps[i].Normalize()
	}

	page = ProfilePage{User: account.Public(), Apps: apps}
	s.remember(ctx, key, page)
	return &page, nil
}

// PublicApplication returns one PUBLIC or UNLISTED application of handle.
func (s *Service) PublicApplication(ctx context.Context, handle, slug string) (*ApplicationPage, error) {
	username := models.NormalizeUsername(handle)
	key := cache.AppKey(username, slug)

	var page ApplicationPage
	if s.cached(ctx, key, &page) {
		return &page, nil
	}

	account, err := s.publicAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetPublicBySlug(ctx, account.ID, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("App not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load app", err)
	}
	app.Normalize()

	page = ApplicationPage{User: account.Public(), App: app}
	s.remember(ctx, key, page)
	return &page, nil
}

func (s *Service) publicAccount(ctx context.Context, username string) (*models.Account, error) {
	if username == "" {
		return nil, apperr.NotFound("User not found")
	}
	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	return account, nil
}

func (s *Service) cached(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warnf("[Showcase] cache read failed for %s: %v", key, err)
		return false
	}
	return hit
}

func (s *Service) remember(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		log.Warnf("[Showcase] cache write failed for %s: %v", key, err)
	}
}
