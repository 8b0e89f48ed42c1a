package objectstore

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		BucketName:      "media",
		EndpointURL:     "http://localhost:9000",
		Enabled:         true,
	}
}

func TestSignUploadIsOffline(t *testing.T) {
	c, err := NewClient(context.Background(), testConfig())
	require.NoError(t, err)

	ticket, err := c.SignUpload(context.Background(), ScreenshotsFolder, "", "")
	require.NoError(t, err)

	assert.Equal(t, "PUT", ticket.Method)
	assert.True(t, strings.HasPrefix(ticket.Key, "appfolio/screenshots/"))
	assert.Equal(t, "http://localhost:9000/media/"+ticket.Key, ticket.PublicURL)

	u, err := url.Parse(ticket.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+ticket.Key, u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestSignUploadWithContentType(t *testing.T) {
	c, err := NewClient(context.Background(), testConfig())
	require.NoError(t, err)

	ticket, err := c.SignUpload(context.Background(), ScreenshotsFolder, ".png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ticket.Key, ".png"))

	u, err := url.Parse(ticket.UploadURL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")
}

func TestNewClientDisabled(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{})
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	cfg := &Config{BucketName: "media", Region: "eu-west-1"}
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/appfolio/covers/x.jpg", cfg.PublicURL("appfolio/covers/x.jpg"))

	cfg.PublicBaseURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/appfolio/covers/x.jpg", cfg.PublicURL("/appfolio/covers/x.jpg"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "appfolio/covers/a.jpg", ObjectKey("/appfolio/covers/", "a.jpg"))
}

func TestLoadConfigRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("S3_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestKeyForURL(t *testing.T) {
	cfg := &Config{BucketName: "media", Region: "eu-west-1", PublicBaseURL: "https://cdn.example.com"}

	key, ok := cfg.KeyForURL("https://cdn.example.com/appfolio/covers/x.jpg?v=2")
	require.True(t, ok)
	assert.Equal(t, "appfolio/covers/x.jpg", key)

	key, ok = cfg.KeyForURL(cfg.PublicURL("appfolio/screenshots/a.png"))
	require.True(t, ok)
	assert.Equal(t, "appfolio/screenshots/a.png", key)

	for _, u := range []string{
		"",
		"https://elsewhere.example.com/appfolio/covers/x.jpg",
		"https://cdn.example.com/private/x.jpg",
		"https://cdn.example.com/appfolio/covers/",
		"https://cdn.example.com/appfolio/covers/../secrets",
	} {
		_, ok := cfg.KeyForURL(u)
		assert.False(t, ok, u)
	}
}

func TestKeyForURLPathStyleEndpoint(t *testing.T) {
	key, ok := testConfig().KeyForURL("http://localhost:9000/media/appfolio/screenshots/s.png")
	require.True(t, ok)
	assert.Equal(t, "appfolio/screenshots/s.png", key)

	_, ok = testConfig().KeyForURL("http://localhost:9000/other/appfolio/screenshots/s.png")
	assert.False(t, ok)
}

func TestOwnedKeyForURL(t *testing.T) {
	cfg := &Config{BucketName: "media", Region: "eu-west-1", PublicBaseURL: "https://cdn.example.com"}

	mine := cfg.PublicURL(ObjectKey(OwnerFolder(CoversFolder, "acc-1"), "c.jpg"))
	key, ok := cfg.OwnedKeyForURL(mine, "acc-1")
	require.True(t, ok)
	assert.Equal(t, "appfolio/covers/acc-1/c.jpg", key)

	_, ok = cfg.OwnedKeyForURL(mine, "acc-2")
	assert.False(t, ok)

	for _, u := range []string{
		"https://cdn.example.com/appfolio/screenshots/legacy.png",
		"https://cdn.example.com/appfolio/screenshots/acc-1/",
		"https://elsewhere.example.com/appfolio/screenshots/acc-1/a.png",
	} {
		_, ok := cfg.OwnedKeyForURL(u, "acc-1")
		assert.False(t, ok, u)
	}
	_, ok = cfg.OwnedKeyForURL(mine, "")
	assert.False(t, ok)
}
