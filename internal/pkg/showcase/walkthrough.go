package showcase

import (
	"context"
	"errors"
	"strings"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/collection"
	"github.com/appfolio/showcase-api/internal/pkg/metrics"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
	"github.com/appfolio/showcase-api/internal/pkg/validation"
)

const collectionWalkthrough = "walkthrough"

// Walkthrough steps are not subject to a plan quota.
func (s *Service) AddStep(ctx context.Context, subject, appID string, in StepInput) ([]models.WalkthroughStep, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Tags = trimAll(in.Tags)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		step := models.WalkthroughStep{
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Tags:        in.Tags,
		}
		if step.Tags == nil {
			step.Tags = []string{}
		}
		next, err := collection.Append(o.Application.Walkthrough, step)
		if err != nil {
			return err
		}
		o.Application.Walkthrough = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionWalkthrough, "append")
	return app.Walkthrough, nil
}

func (s *Service) UpdateStep(ctx context.Context, subject, appID, stepID string, in StepPatch) ([]models.WalkthroughStep, error) {
	in.Title = trimPtr(in.Title)
	in.Description = trimPtr(in.Description)
	in.ImageURL = trimPtr(in.ImageURL)
	in.Tags = trimAll(in.Tags)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Update(o.Application.Walkthrough, stepID, func(step *models.WalkthroughStep) {
			if in.Title != nil {
				step.Title = *in.Title
			}
			if in.Description != nil {
				step.Description = *in.Description
			}
			if in.ImageURL != nil {
				step.ImageURL = *in.ImageURL
			}
			if in.Tags != nil {
				step.Tags = append([]string{}, in.Tags...)
			}
		})
		if err != nil {
			return stepError(err)
		}
		o.Application.Walkthrough = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionWalkthrough, "update")
	return app.Walkthrough, nil
}

func (s *Service) DeleteStep(ctx context.Context, subject, appID, stepID string) ([]models.WalkthroughStep, error) {
	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Delete(o.Application.Walkthrough, stepID)
		if err != nil {
			return stepError(err)
		}
		o.Application.Walkthrough = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionWalkthrough, "delete")
	return app.Walkthrough, nil
}

func (s *Service) ReorderSteps(ctx context.Context, subject, appID string, in ReorderStepsInput) ([]models.WalkthroughStep, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	app, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		next, err := collection.Reorder(o.Application.Walkthrough, in.StepIDs)
		if err != nil {
			return stepError(err)
		}
		o.Application.Walkthrough = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMutation(collectionWalkthrough, "reorder")
	return app.Walkthrough, nil
}

func stepError(err error) error {
	switch {
	case errors.Is(err, collection.ErrItemNotFound):
		return apperr.NotFound("Step not found")
	case errors.Is(err, collection.ErrInvalidPermutation):
		return apperr.InvalidArgument("Invalid step id in reorder list")
	default:
		return err
	}
}
