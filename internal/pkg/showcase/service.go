// Package showcase implements the account and application operations behind
// the API. Every mutation resolves an owned copy of the application, applies
// one transformation and writes the whole document back once.
package showcase

import (
	"context"
	"errors"
	"image"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/cache"
	"github.com/appfolio/showcase-api/internal/pkg/cover"
	"github.com/appfolio/showcase-api/internal/pkg/objectstore"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
)

// CoverComposer renders a cover image.
type CoverComposer interface {
	Compose(in cover.Input) ([]byte, error)
}

// ImageFetcher downloads a remote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// ObjectStore signs browser uploads and stores server generated files.
// KeyForURL accepts only URLs inside the managed bucket folders;
// OwnedKeyForURL further requires the owner's own folder.
type ObjectStore interface {
	SignUpload(ctx context.Context, folder, ext, contentType string) (*objectstore.UploadTicket, error)
	Put(ctx context.Context, folder, ext, contentType string, body []byte) (string, error)
	KeyForURL(url string) (string, bool)
	OwnedKeyForURL(url, ownerID string) (string, bool)
}

// AssetCleaner schedules removal of uploaded files an application stopped
// referencing.
type AssetCleaner interface {
	Discard(ctx context.Context, ownerID, appID string, urls ...string)
}

// Deps are the collaborators of a Service. Store and Cleaner may be nil when
// object storage is not configured; Cache defaults to a no-op cache.
type Deps struct {
	Accounts     repository.AccountRepository
	Applications repository.ApplicationRepository
	Composer     CoverComposer
	Fetcher      ImageFetcher
	Store        ObjectStore
	Cache        cache.PageCache
	Cleaner      AssetCleaner
	Now          func() time.Time
}

type Service struct {
	accounts repository.AccountRepository
	apps     repository.ApplicationRepository
	resolver *ownership.Resolver
	composer CoverComposer
	fetcher  ImageFetcher
	store    ObjectStore
	cache    cache.PageCache
	cleaner  AssetCleaner
	now      func() time.Time
}

func New(d Deps) *Service {
	s := &Service{
		accounts: d.Accounts,
		apps:     d.Applications,
		resolver: ownership.NewResolver(d.Accounts, d.Applications),
		composer: d.Composer,
		fetcher:  d.Fetcher,
		store:    d.Store,
		cache:    d.Cache,
		cleaner:  d.Cleaner,
		now:      d.Now,
	}
	if s.cache == nil {
		s.cache = cache.NopPageCache{}
	}
	if s.composer == nil {
		s.composer = cover.NewComposer()
	}
	if s.fetcher == nil {
		s.fetcher = cover.NewFetcher()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// mutate resolves the caller's application, lets fn transform the private
// copy and saves it. Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, subject, appID string, fn func(*ownership.Owned) error) (*models.Application, error) {
	owned, err := s.resolver.Resolve(ctx, subject, appID)
	if err != nil {
		return nil, err
	}
	before := assetURLs(owned.Application)
	if err := fn(owned); err != nil {
		return nil, err
	}

	app := owned.Application
	app.UpdatedAt = s.now()
	if err := s.apps.Save(ctx, app); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("App not found")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("SLUG_TAKEN", "An app with this slug already exists")
		}
		return nil, apperr.Internal("Failed to save app", err)
	}

	s.invalidate(ctx, owned.Account, app)
	s.discardDropped(ctx, app, before)
	return app, nil
}

// discardDropped hands the owner's uploads referenced before a save but not
// after it to the cleaner. Links into another account's folder are never
// discarded, even when this app referenced them.
func (s *Service) discardDropped(ctx context.Context, app *models.Application, before map[string]struct{}) {
	if s.cleaner == nil || s.store == nil {
		return
	}
	after := assetURLs(app)
	var dropped []string
	for url := range before {
		if _, ok := after[url]; ok {
			continue
		}
		if _, owned := s.store.OwnedKeyForURL(url, app.OwnerID); owned {
			dropped = append(dropped, url)
		}
	}
	if len(dropped) == 0 {
		return
	}
	sort.Strings(dropped)
	s.cleaner.Discard(ctx, app.OwnerID, app.ID, dropped...)
}

func assetURLs(app *models.Application) map[string]struct{} {
	urls := make(map[string]struct{})
	add := func(u string) {
		if u != "" {
			urls[u] = struct{}{}
		}
	}
	add(app.CoverImageURL)
	add(app.AppIconURL)
	add(app.ArchitectureDiagramImageURL)
	for _, shot := range app.Screenshots {
		add(shot.URL)
	}
	for _, step := range app.Walkthrough {
		add(step.ImageURL)
	}
	return urls
}

// invalidate drops the cached public pages an owner save may have changed.
func (s *Service) invalidate(ctx context.Context, account *models.Account, app *models.Application) {
	keys := []string{cache.ProfileKey(account.Username)}
	if app != nil {
		keys = append(keys, cache.AppKey(account.Username, app.Slug))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		log.Warnf("[Showcase] cache invalidation failed for %s: %v", account.Username, err)
	}
}

func (s *Service) accountBySubject(ctx context.Context, subject string) (*models.Account, error) {
	if subject == "" {
		return nil, repository.ErrNotFound
	}
	return s.accounts.GetBySubject(ctx, subject)
}
