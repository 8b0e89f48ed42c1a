// Package ratelimit configures the API request limiter. Counters live in
// Redis when the cache is configured so every instance shares one budget.
package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/appfolio/showcase-api/internal/pkg/cache"
	"github.com/appfolio/showcase-api/internal/pkg/env"
	"github.com/appfolio/showcase-api/internal/pkg/usercontext"
)

// limiterDatabase keeps limiter keys apart from the page cache (DB 0).
const limiterDatabase = 1

type Config struct {
	Max    int
	Window time.Duration
}

// LoadConfig reads RATE_LIMIT_MAX requests per RATE_LIMIT_WINDOW.
func LoadConfig() Config {
	cfg := Config{Max: 120, Window: time.Minute}
	if v, err := strconv.Atoi(env.GetEnv("RATE_LIMIT_MAX", "")); err == nil && v > 0 {
		cfg.Max = v
	}
	if d, err := time.ParseDuration(env.GetEnv("RATE_LIMIT_WINDOW", "")); err == nil && d > 0 {
		cfg.Window = d
	}
	return cfg
}

// NewStorage returns a Redis backed limiter storage, or nil for the limiter's
// in-memory default when the cache is disabled.
func NewStorage(cc cache.Config) fiber.Storage {
	if !cc.Enabled() {
		log.Info("[RateLimit] cache disabled, counting requests in memory")
		return nil
	}
	return redis.New(redis.Config{
		Host:     cc.Host,
		Port:     cc.PortNumber(),
		Password: cc.Password,
		Database: limiterDatabase,
		Reset:    false,
	})
}

// New builds the limiter middleware. Verified callers are limited by
// subject, anonymous callers by IP.
func New(cfg Config, storage fiber.Storage) fiber.Handler {
	lc := limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Window,
		KeyGenerator: Key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":     "rate_limited",
				"message":   "Too many requests",
				"retryable": true,
			})
		},
	}
	if storage != nil {
		lc.Storage = storage
	}
	return limiter.New(lc)
}

func Key(c *fiber.Ctx) string {
	if sub := usercontext.GetSubject(c); sub != "" {
		return "sub:" + sub
	}
	return "ip:" + c.IP()
}
