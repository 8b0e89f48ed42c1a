package showcase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/entitlements"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
	"github.com/appfolio/showcase-api/internal/pkg/validation"
)

const (
	CodeNotOnboarded = "USER_NOT_ONBOARDED"
	CodeSlugTaken    = "SLUG_TAKEN"

	maxSlugAttempts = 20
	maxSlugLength   = 60
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ApplicationList is the owner's dashboard. User is nil before onboarding.
type ApplicationList struct {
	User *models.Account      `json:"user,omitempty"`
	Apps []models.Application `json:"apps"`
}

// ApplicationMeta tells the editor how much of the screenshot quota is used.
type ApplicationMeta struct {
	Plan            string `json:"plan"`
	ScreenshotLimit int    `json:"screenshotLimit"`
	ScreenshotsUsed int    `json:"screenshotsUsed"`
}

type ApplicationDetail struct {
	App  *models.Application `json:"app"`
	Meta ApplicationMeta     `json:"meta"`
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

func (s *Service) ListApplications(ctx context.Context, subject string) (*ApplicationList, error) {
	account, err := s.accountBySubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return &ApplicationList{Apps: []models.Application{}}, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load account", err)
	}

	apps, err := s.apps.ListByOwner(ctx, account.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to list apps", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return &ApplicationList{User: account, Apps: apps}, nil
}

// CreateApplication adds an application with a slug unique for the owner.
func (s *Service) CreateApplication(ctx context.Context, subject string, in CreateApplicationInput) (*models.Application, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	account, err := s.accountBySubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.InvalidArgument("User profile not created. Set username first.").WithCode(CodeNotOnboarded)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load account", err)
	}

	slug, err := s.uniqueSlug(ctx, account.ID, in.Name)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		OwnerID:          account.ID,
		Name:             in.Name,
		Slug:             slug,
		ShortDescription: in.ShortDescription,
		Platform:         datatypes.JSONSlice[string](in.Platform),
	}
	app.PrepareCreate(s.now())
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(CodeSlugTaken, "An app with this name already exists")
		}
		return nil, apperr.Internal("Failed to create app", err)
	}

	s.invalidate(ctx, account, nil)
	log.Infof("[Showcase] account %s created app %s (%s)", account.ID, app.ID, app.Slug)
	return app, nil
}

func (s *Service) uniqueSlug(ctx context.Context, ownerID, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "app"
	}
	slug := base
	for i := 0; i < maxSlugAttempts; i++ {
		exists, err := s.apps.SlugExists(ctx, ownerID, slug)
		if err != nil {
			return "", apperr.Internal("Failed to check slug", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i+2)
	}
	return "", apperr.Conflict(CodeSlugTaken, "Too many apps share this name")
}

func (s *Service) GetApplication(ctx context.Context, subject, appID string) (*ApplicationDetail, error) {
	owned, err := s.resolver.Resolve(ctx, subject, appID)
	if err != nil {
		return nil, err
	}
	plan := entitlements.Normalize(owned.Account.Plan)
	return &ApplicationDetail{
		App: owned.Application,
		Meta: ApplicationMeta{
			Plan:            string(plan),
			ScreenshotLimit: entitlements.ScreenshotLimit(plan),
			ScreenshotsUsed: len(owned.Application.Screenshots),
		},
	}, nil
}

func (s *Service) UpdateHero(ctx context.Context, subject, appID string, in HeroInput) (*models.Application, error) {
	in.Name = trimPtr(in.Name)
	in.AppIconURL = trimPtr(in.AppIconURL)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.AppIconURL != nil && *in.AppIconURL != "" {
		if models.Validator().Var(*in.AppIconURL, "url") != nil {
			return nil, validation.Invalid("appIconUrl", "url", "appIconUrl must be a URL or empty")
		}
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		if in.Name != nil {
			o.Application.Name = *in.Name
		}
		if in.Platform != nil {
			o.Application.Platform = datatypes.JSONSlice[string](in.Platform)
		}
		if in.AppIconURL != nil {
			o.Application.AppIconURL = *in.AppIconURL
		}
		return nil
	})
}

func (s *Service) UpdateOverview(ctx context.Context, subject, appID string, in OverviewInput) (*models.Application, error) {
	in.Bullets = trimAll(in.Bullets)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.OverviewBullets = dropBlank(in.Bullets)
		return nil
	})
}

func (s *Service) UpdateChallenges(ctx context.Context, subject, appID string, in ChallengesInput) (*models.Application, error) {
	in.Intro = strings.TrimSpace(in.Intro)
	in.Bullets = trimAll(in.Bullets)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.ChallengesIntro = in.Intro
		o.Application.ChallengesBullets = dropBlank(in.Bullets)
		return nil
	})
}

func (s *Service) UpdateArchitectureDiagram(ctx context.Context, subject, appID string, in DiagramInput) (*models.Application, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.ArchitectureDiagram = toDiagram(in)
		return nil
	})
}

func (s *Service) UpdateArchitectureDiagramImage(ctx context.Context, subject, appID string, in DiagramImageInput) (*models.Application, error) {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.ArchitectureDiagramImageURL = in.ImageURL
		return nil
	})
}

func (s *Service) UpdateUserFlowDiagram(ctx context.Context, subject, appID string, in DiagramInput) (*models.Application, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.UserFlowDiagram = toDiagram(in)
		return nil
	})
}

func (s *Service) UpdateUserFlowText(ctx context.Context, subject, appID string, in UserFlowTextInput) (*models.Application, error) {
	in.Mode = strings.ToUpper(strings.TrimSpace(in.Mode))
	in.Bullets = trimAll(in.Bullets)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.UserFlowText = models.UserFlowText{
			Mode:    in.Mode,
			Bullets: datatypes.JSONSlice[string](dropBlank(in.Bullets)),
		}
		return nil
	})
}

func (s *Service) UpdateVisibility(ctx context.Context, subject, appID string, in VisibilityInput) (*models.Application, error) {
	in.Visibility = strings.ToUpper(strings.TrimSpace(in.Visibility))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.Visibility = in.Visibility
		return nil
	})
}

func toDiagram(in DiagramInput) models.Diagram {
	d := models.Diagram{
		Version:  models.DiagramVersion,
		Nodes:    in.Nodes,
		Edges:    in.Edges,
		Viewport: in.Viewport,
	}
	return d.Clone()
}
