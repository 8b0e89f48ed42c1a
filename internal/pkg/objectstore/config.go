package objectstore

import (
	"errors"
	"strings"

	"github.com/appfolio/showcase-api/internal/pkg/env"
)

// Config holds the object storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN or bucket website origin
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     strings.TrimRight(env.GetEnv("S3_ENDPOINT_URL", ""), "/"),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		Enabled:         env.GetEnv("S3_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when object storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when object storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when object storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if uploads are configured
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// PublicURL returns the address clients use to read objectKey.
func (c *Config) PublicURL(objectKey string) string {
	key := strings.TrimLeft(objectKey, "/")
	switch {
	case c.PublicBaseURL != "":
		return c.PublicBaseURL + "/" + key
	case c.EndpointURL != "":
		return c.EndpointURL + "/" + c.BucketName + "/" + key
	default:
		return "https://" + c.BucketName + ".s3." + c.Region + ".amazonaws.com/" + key
	}
}

// KeyForURL reverses PublicURL. Only keys under the managed folders are
// returned, so user supplied links elsewhere are never touched.
func (c *Config) KeyForURL(url string) (string, bool) {
	base := strings.TrimSuffix(c.PublicURL("x"), "x")
	if url == "" || !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if strings.Contains(key, "..") {
		return "", false
	}
	for _, folder := range managedFolders {
		if strings.HasPrefix(key, folder+"/") && len(key) > len(folder)+1 {
			return key, true
		}
	}
	return "", false
}

// OwnedKeyForURL is KeyForURL limited to objects stored in ownerID's own
// folders.
func (c *Config) OwnedKeyForURL(url, ownerID string) (string, bool) {
	key, ok := c.KeyForURL(url)
	if !ok || ownerID == "" || strings.ContainsAny(ownerID, "/.") {
		return "", false
	}
	for _, folder := range managedFolders {
		prefix := OwnerFolder(folder, ownerID) + "/"
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			return key, true
		}
	}
	return "", false
}
