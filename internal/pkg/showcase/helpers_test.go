package showcase

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/objectstore"
)

var testBucket = &objectstore.Config{BucketName: "media", PublicBaseURL: "https://cdn.test"}

type fakeStore struct {
	mu      sync.Mutex
	puts    []string
	signed  []string
	failPut error
}

func (f *fakeStore) KeyForURL(url string) (string, bool) {
	return testBucket.KeyForURL(url)
}

func (f *fakeStore) OwnedKeyForURL(url, ownerID string) (string, bool) {
	return testBucket.OwnedKeyForURL(url, ownerID)
}

func (f *fakeStore) SignUpload(_ context.Context, folder, ext, contentType string) (*objectstore.UploadTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signed = append(f.signed, folder)
	key := objectstore.ObjectKey(folder, "upload-1"+ext)
	ticket := &objectstore.UploadTicket{UploadURL: "https://s3.test/" + key, Method: "PUT", Key: key, Folder: folder}
	if contentType != "" {
		ticket.Headers = map[string]string{"Content-Type": contentType}
	}
	return ticket, nil
}

func (f *fakeStore) Put(_ context.Context, folder, ext, _ string, body []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return "", f.failPut
	}
	f.puts = append(f.puts, folder)
	return testBucket.PublicURL(objectstore.ObjectKey(folder, "cover"+ext)), nil
}

type fakeFetcher struct {
	urls []string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (image.Image, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return imaging.New(40, 80, color.White), nil
}

type fakeCleaner struct {
	mu        sync.Mutex
	discarded map[string][]string
}

func (f *fakeCleaner) Discard(_ context.Context, _, appID string, urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded == nil {
		f.discarded = map[string][]string{}
	}
	f.discarded[appID] = append(f.discarded[appID], urls...)
}

func (f *fakeCleaner) urls(appID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.discarded[appID]...)
}

type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

type harness struct {
	svc     *Service
	repos   *repository.Repositories
	store   *fakeStore
	fetcher *fakeFetcher
	cache   *memCache
	cleaner *fakeCleaner
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repos:   repository.NewMemoryRepositories(),
		store:   &fakeStore{},
		fetcher: &fakeFetcher{},
		cache:   newMemCache(),
		cleaner: &fakeCleaner{},
	}
	h.svc = New(Deps{
		Accounts:     h.repos.Account,
		Applications: h.repos.Application,
		Fetcher:      h.fetcher,
		Store:        h.store,
		Cache:        h.cache,
		Cleaner:      h.cleaner,
	})
	return h
}

func (h *harness) onboard(t *testing.T, subject, username string) *models.Account {
	t.Helper()
	acc, err := h.svc.Onboard(context.Background(), subject, OnboardInput{Username: username})
	require.NoError(t, err)
	return acc
}

func (h *harness) createApp(t *testing.T, subject, name string) *models.Application {
	t.Helper()
	app, err := h.svc.CreateApplication(context.Background(), subject, CreateApplicationInput{Name: name})
	require.NoError(t, err)
	return app
}

func (h *harness) addShot(subject, appID, url string) ([]models.Screenshot, error) {
	w, ht := 1080, 1920
	return h.svc.AddScreenshot(context.Background(), subject, appID, ScreenshotInput{URL: url, Width: &w, Height: &ht})
}

// bucketURL is the public URL of name stored in ownerID's folder.
func bucketURL(folder, ownerID, name string) string {
	return testBucket.PublicURL(objectstore.ObjectKey(objectstore.OwnerFolder(folder, ownerID), name))
}

func ptr[T any](v T) *T {
	return &v
}
