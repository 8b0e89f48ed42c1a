package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/appfolio/showcase-api/internal/pkg/env"
)

// Config describes the Redis compatible cache server.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoadConfig reads CACHE_HOST, CACHE_PORT, CACHE_PASSWORD and CACHE_DB.
// An empty host disables the cache.
func LoadConfig() Config {
	db, err := strconv.Atoi(env.GetEnv("CACHE_DB", "0"))
	if err != nil {
		db = 0
	}
	return Config{
		Host:     env.GetEnv("CACHE_HOST", ""),
		Port:     env.GetEnv("CACHE_PORT", "6379"),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       db,
	}
}

func (c Config) Enabled() bool {
	return c.Host != ""
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// PortNumber returns the port as an int for clients that need one.
func (c Config) PortNumber() int {
	p, err := strconv.Atoi(c.Port)
	if err != nil {
		return 6379
	}
	return p
}

// Connect opens a client and pings the server once.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := client.Ping(pingCtx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to cache at %s: %w", cfg.Addr(), err)
	}
	log.Infof("[Cache] Connected to %s: %s", cfg.Addr(), pong)
	return client, nil
}
