package showcase

import (
	"context"
	"errors"
	"strings"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/collection"
	"github.com/appfolio/showcase-api/internal/pkg/entitlements"
	"github.com/appfolio/showcase-api/internal/pkg/metrics"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
	"github.com/appfolio/showcase-api/internal/pkg/validation"
)

const collectionScreenshots = "screenshots"

// AddScreenshot appends a screenshot if the owner's plan has room for it.
func (s *Service) AddScreenshot(ctx context.Context, subject, appID string, in ScreenshotInput) ([]models.Screenshot, error) {
	in.URL = strings.TrimSpace(in.URL)
	in.Caption = strings.TrimSpace(in.Caption)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		plan := entitlements.Normalize(o.Account.Plan)
		quota := func(count int) error {
			return entitlements.CheckScreenshotQuota(plan, count)
		}
		shot := models.Screenshot{URL: in.URL, Width: *in.Width, Height: *in.Height, Caption: in.Caption}

		next, err := collection.Append(o.Application.Screenshots, shot, quota)
		if err != nil {
			if apperr.Is(err, apperr.KindQuotaExceeded) {
				metrics.RecordQuotaRejection(string(plan))
			}
			return err
		}
		o.Application.Screenshots = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionScreenshots, "append")
	return app.Screenshots, nil
}

func (s *Service) UpdateScreenshot(ctx context.Context, subject, appID, screenshotID string, in ScreenshotPatch) ([]models.Screenshot, error) {
	in.URL = trimPtr(in.URL)
	in.Caption = trimPtr(in.Caption)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Update(o.Application.Screenshots, screenshotID, func(shot *models.Screenshot) {
			if in.URL != nil {
				shot.URL = *in.URL
			}
			if in.Width != nil {
				shot.Width = *in.Width
			}
			if in.Height != nil {
				shot.Height = *in.Height
			}
			if in.Caption != nil {
				shot.Caption = *in.Caption
			}
		})
		if err != nil {
			return screenshotError(err)
		}
		o.Application.Screenshots = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionScreenshots, "update")
	return app.Screenshots, nil
}

func (s *Service) DeleteScreenshot(ctx context.Context, subject, appID, screenshotID string) ([]models.Screenshot, error) {
	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Delete(o.Application.Screenshots, screenshotID)
		if err != nil {
			return screenshotError(err)
		}
		o.Application.Screenshots = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionScreenshots, "delete")
	return app.Screenshots, nil
}

// ReorderScreenshots applies a full permutation of the current screenshot ids.
func (s *Service) ReorderScreenshots(ctx context.Context, subject, appID string, in ReorderScreenshotsInput) ([]models.Screenshot, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Reorder(o.Application.Screenshots, in.ScreenshotIDs)
		if err != nil {
			return screenshotError(err)
		}
		o.Application.Screenshots = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionScreenshots, "reorder")
	return app.Screenshots, nil
}

func screenshotError(err error) error {
	switch {
	case errors.Is(err, collection.ErrItemNotFound):
		return apperr.NotFound("Screenshot not found")
	case errors.Is(err, collection.ErrInvalidPermutation):
		return apperr.InvalidArgument("Invalid screenshot id in reorder list")
	default:
		return err
	}
}
