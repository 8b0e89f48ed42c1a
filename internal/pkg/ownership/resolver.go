// Package ownership resolves a caller subject and an application id into the
// caller's account and an exclusively owned copy of the application.
package ownership

import (
	"context"
	"errors"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

const notFoundMessage = "App not found"

// Owned is the result of a successful resolution. Application is a private
// copy the caller may transform freely before saving.
type Owned struct {
	Account     *models.Account
	Application *models.Application
}

type Resolver struct {
	accounts repository.AccountRepository
	apps     repository.ApplicationRepository
}

func NewResolver(accounts repository.AccountRepository, apps repository.ApplicationRepository) *Resolver {
	return &Resolver{accounts: accounts, apps: apps}
}

// Resolve reads the account for subject and then the application scoped to
// that account. A missing account, a missing application and an application
// owned by someone else all produce the same not_found error. Nothing is
// cached between calls.
func (r *Resolver) Resolve(ctx context.Context, subject, appID string) (*Owned, error) {
	if subject == "" || appID == "" {
		return nil, notFound()
	}

	account, err := r.accounts.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound()
		}
		return nil, apperr.Internal("Failed to load account", err)
	}

	app, err := r.apps.GetOwned(ctx, appID, account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound()
		}
		return nil, apperr.Internal("Failed to load app", err)
	}

	owned := app.Clone()
	owned.Normalize()
	return &Owned{Account: account, Application: owned}, nil
}

// ResolveAccount returns the onboarded account for subject.
func (r *Resolver) ResolveAccount(ctx context.Context, subject string) (*models.Account, error) {
	if subject == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	account, err := r.accounts.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Unauthorized")
		}
		return nil, apperr.Internal("Failed to load account", err)
	}
	return account, nil
}

func notFound() *apperr.Error {
	return apperr.NotFound(notFoundMessage)
}
