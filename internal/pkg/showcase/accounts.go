package showcase

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/validation"
)

const (
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeAlreadyOnboarded = "USER_ALREADY_ONBOARDED"
)

// Me is the caller's onboarding state.
type Me struct {
	Onboarded bool            `json:"onboarded"`
	User      *models.Account `json:"user,omitempty"`
}

func (s *Service) GetMe(ctx context.Context, subject string) (*Me, error) {
	account, err := s.accountBySubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return &Me{Onboarded: false}, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load account", err)
	}
	return &Me{Onboarded: true, User: account}, nil
}

// Onboard creates the caller's account with a normalized handle.
func (s *Service) Onboard(ctx context.Context, subject string, in OnboardInput) (*models.Account, error) {
	if subject == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	username := models.NormalizeUsername(in.Username)
	if !models.IsValidUsername(username) {
		return nil, validation.Invalid("username", "username", "Username must be 3-20 characters of a-z, 0-9 or _")
	}

	existing, err := s.accounts.FindBySubjectOrUsername(ctx, subject, username)
	switch {
	case err == nil:
		return nil, onboardConflict(existing, username)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal("Failed to load account", err)
	}

	sub := subject
	account := &models.Account{
		SubjectID:   &sub,
		Email:       in.Email,
		Username:    username,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Headline:    strings.TrimSpace(in.Headline),
		Plan:        models.PLAN_FREE,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent onboarding.
			if again, lookupErr := s.accounts.FindBySubjectOrUsername(ctx, subject, username); lookupErr == nil {
				return nil, onboardConflict(again, username)
			}
			return nil, apperr.Conflict(CodeUsernameTaken, "Username already taken")
		}
		return nil, apperr.Internal("Failed to create account", err)
	}

	log.Infof("[Showcase] onboarded account %s as %s", account.ID, account.Username)
	return account, nil
}

func onboardConflict(existing *models.Account, username string) error {
	if existing.Username == username {
		return apperr.Conflict(CodeUsernameTaken, "Username already taken")
	}
	return apperr.Conflict(CodeAlreadyOnboarded, "User already onboarded")
}
