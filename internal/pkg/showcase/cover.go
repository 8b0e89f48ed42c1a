package showcase

import (
	"context"
	"image"

	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/cover"
	"github.com/appfolio/showcase-api/internal/pkg/objectstore"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
	"github.com/appfolio/showcase-api/internal/pkg/upload"
	"github.com/appfolio/showcase-api/internal/pkg/validation"
)

const CodeExternalScreenshot = "SCREENSHOT_NOT_UPLOADED"

// GenerateCover renders the social preview from the name, the owner's handle
// and the first screenshot, uploads it and stores its URL.
func (s *Service) GenerateCover(ctx context.Context, subject, appID string) (string, error) {
	if s.store == nil {
		return "", apperr.Internal("Object storage is not configured", nil)
	}

	owned, err := s.resolver.Resolve(ctx, subject, appID)
	if err != nil {
		return "", err
	}

	var shot image.Image
	if first, ok := owned.Application.FirstScreenshot(); ok {
		// Only bucket objects are fetched server side.
		if _, managed := s.store.KeyForURL(first.URL); !managed {
			return "", apperr.InvalidArgument("The first screenshot must be uploaded to AppFolio before generating a cover").
				WithCode(CodeExternalScreenshot)
		}
		shot, err = s.fetcher.Fetch(ctx, first.URL)
		if err != nil {
			log.Warnf("[Showcase] cover screenshot fetch failed for app %s: %v", appID, err)
			return "", apperr.Wrap(apperr.KindUpstream, "Failed to fetch screenshot", err)
		}
	}

	data, err := s.composer.Compose(cover.Input{
		Title:      owned.Application.Name,
		Subtitle:   "by " + owned.Account.Username,
		Screenshot: shot,
	})
	if err != nil {
		return "", apperr.Internal("Failed to render cover", err)
	}

	url, err := s.store.Put(ctx, objectstore.OwnerFolder(objectstore.CoversFolder, owned.Account.ID), ".jpg", "image/jpeg", data)
	if err != nil {
		log.Errorf("[Showcase] cover upload failed for app %s: %v", appID, err)
		return "", apperr.Wrap(apperr.KindUpstream, "Failed to upload cover", err)
	}

	// Re-read before saving so edits made while rendering are kept.
	if _, err := s.mutate(ctx, subject, appID, func(o *ownership.Owned) error {
		o.Application.CoverImageURL = url
		return nil
	}); err != nil {
		return "", err
	}
	return url, nil
}

// SignUpload issues a presigned upload for a screenshot. Only onboarded
// accounts may upload. When the caller names the file, its type must be an
// allowed image type and is bound into the signature.
func (s *Service) SignUpload(ctx context.Context, subject string, in SignUploadInput) (*objectstore.UploadTicket, error) {
	account, err := s.resolver.ResolveAccount(ctx, subject)
	if err != nil {
		return nil, err
	}

	var ext, contentType string
	if in.FileName != "" || in.ContentType != "" {
		ext, contentType, err = upload.Describe(in.FileName, in.ContentType)
		if err != nil {
			return nil, validation.Invalid("fileName", "image", err.Error())
		}
	}

	if s.store == nil {
		return nil, apperr.Internal("Object storage is not configured", nil)
	}
	ticket, err := s.store.SignUpload(ctx, objectstore.OwnerFolder(objectstore.ScreenshotsFolder, account.ID), ext, contentType)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "Failed to sign upload", err)
	}
	return ticket, nil
}
