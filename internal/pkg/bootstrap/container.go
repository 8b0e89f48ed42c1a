// Package bootstrap wires configuration, stores, clients and services into
// one Container with an explicit Close.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/appfolio/showcase-api/app/controllers"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/billing"
	"github.com/appfolio/showcase-api/internal/pkg/cache"
	"github.com/appfolio/showcase-api/internal/pkg/database"
	"github.com/appfolio/showcase-api/internal/pkg/env"
	"github.com/appfolio/showcase-api/internal/pkg/identity"
	"github.com/appfolio/showcase-api/internal/pkg/jobqueue"
	"github.com/appfolio/showcase-api/internal/pkg/objectstore"
	"github.com/appfolio/showcase-api/internal/pkg/ownership"
	"github.com/appfolio/showcase-api/internal/pkg/ratelimit"
	"github.com/appfolio/showcase-api/internal/pkg/router"
	"github.com/appfolio/showcase-api/internal/pkg/showcase"
)

type Container struct {
	Driver string
	DB     *gorm.DB
	Mongo  *mongo.Client
	Redis  *redis.Client
	Jobs   *jobqueue.Queue

	Repos    *repository.Repositories
	Showcase *showcase.Service
	Billing  *billing.Service
	Handlers *router.Handlers

	closers []func() error
}

// New builds the container from the environment. On error everything opened
// so far is closed again.
func New(ctx context.Context) (*Container, error) {
	c := &Container{}
	if err := c.build(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	verifier, err := identity.NewHMACVerifierFromEnv()
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	factory, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	c.Repos = factory.GetRepositories()

	cacheCfg := cache.LoadConfig()
	pageCache := c.openPageCache(ctx, cacheCfg)

	objects, err := openObjectStore(ctx)
	if err != nil {
		return err
	}
	var (
		store   showcase.ObjectStore
		cleaner showcase.AssetCleaner
	)
	if objects != nil {
		store = objects
		cleaner = c.startCleanup(objects)
	}

	c.Showcase = showcase.New(showcase.Deps{
		Accounts:     c.Repos.Account,
		Applications: c.Repos.Application,
		Store:        store,
		Cache:        pageCache,
		Cleaner:      cleaner,
	})
	c.Billing = billing.NewService(c.Repos.Account, billing.NewRazorpayClientFromEnv(), billing.LoadConfig())
	resolver := ownership.NewResolver(c.Repos.Account, c.Repos.Application)

	c.Handlers = &router.Handlers{
		Users:        controllers.NewUserController(c.Showcase),
		Applications: controllers.NewApplicationController(c.Showcase),
		Screenshots:  controllers.NewScreenshotController(c.Showcase),
		Walkthrough:  controllers.NewWalkthroughController(c.Showcase),
		Public:       controllers.NewPublicController(c.Showcase),
		Uploads:      controllers.NewUploadController(c.Showcase),
		Billing:      controllers.NewBillingController(c.Billing, resolver),
		Verifier:     verifier,
		Limiter:      ratelimit.New(ratelimit.LoadConfig(), ratelimit.NewStorage(cacheCfg)),
		Health:       c.Health,
		DocsFile:     env.GetEnv("API_DOCS_FILE", "docs/openapi.yml"),
	}
	return nil
}

func (c *Container) openStore(ctx context.Context) (*repository.Factory, error) {
	driver, err := repository.ParseDriver(env.GetEnv("STORE_DRIVER", repository.DriverMySQL))
	if err != nil {
		return nil, err
	}
	c.Driver = driver

	switch driver {
	case repository.DriverMemory:
		log.Warn("[Bootstrap] using the in-memory store, data is lost on restart")
		return repository.NewMemoryFactory(), nil

	case repository.DriverMongo:
		client, db, err := database.OpenMongo(ctx, database.LoadMongoConfig())
		if err != nil {
			return nil, err
		}
		c.Mongo = client
		c.closers = append(c.closers, func() error { return client.Disconnect(context.Background()) })
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repository.NewMongoFactory(db), nil

	default:
		db, err := database.Open(ctx, database.LoadConfig())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, func() error { return database.Close(db) })
		return repository.NewFactory(db), nil
	}
}

// openPageCache falls back to no caching when Redis is missing or down; the
// public pages are then served straight from the store.
func (c *Container) openPageCache(ctx context.Context, cfg cache.Config) cache.PageCache {
	if !cfg.Enabled() {
		return cache.NopPageCache{}
	}
	client, err := cache.Connect(ctx, cfg)
	if err != nil {
		log.Warnf("[Bootstrap] page cache disabled: %v", err)
		return cache.NopPageCache{}
	}
	c.Redis = client
	c.closers = append(c.closers, client.Close)

	ttl := 60 * time.Second
	if secs, err := strconv.Atoi(env.GetEnv("PUBLIC_CACHE_TTL_SECONDS", "")); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	return cache.NewRedisPageCache(client, ttl)
}

// startCleanup runs the object delete queue on the cache server. Without
// Redis dropped uploads simply stay in the bucket.
func (c *Container) startCleanup(objects *objectstore.Client) showcase.AssetCleaner {
	if c.Redis == nil {
		log.Warn("[Bootstrap] cache disabled, unreferenced uploads are not cleaned up")
		return nil
	}
	workers, _ := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "2"))
	c.Jobs = jobqueue.NewQueue(c.Redis, workers)
	c.Jobs.Handle(jobqueue.JobTypeObjectDelete, jobqueue.NewObjectDeleteHandler(objects))
	c.Jobs.Start()
	c.closers = append(c.closers, c.Jobs.Stop)
	return jobqueue.NewCleaner(c.Jobs, objects)
}

func openObjectStore(ctx context.Context) (*objectstore.Client, error) {
	cfg, err := objectstore.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	if !cfg.IsEnabled() {
		log.Warn("[Bootstrap] object storage disabled, uploads and covers are unavailable")
		return nil, nil
	}
	client, err := objectstore.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	return client, nil
}

// Health pings every backing service the container opened.
func (c *Container) Health(ctx context.Context) error {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Close releases resources in reverse order of opening.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
