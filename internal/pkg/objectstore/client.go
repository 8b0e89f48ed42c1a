package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	ScreenshotsFolder = "appfolio/screenshots"
	CoversFolder      = "appfolio/covers"

	uploadTTL = 15 * time.Minute
)

// Files are stored as <folder>/<owner id>/<name>.
var managedFolders = []string{ScreenshotsFolder, CoversFolder}

// UploadTicket lets a browser PUT one object directly into the bucket.
type UploadTicket struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	Key       string            `json:"key"`
	Folder    string            `json:"folder"`
	PublicURL string            `json:"publicUrl"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Client wraps the S3 client with upload signing and direct writes
type Client struct {
	s3Client  *s3.Client
	presigner *s3.PresignClient
	config    *Config
}

// NewClient creates a new object storage client
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("object storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	log.Infof("[ObjectStore] Initialized S3 client for bucket: %s", cfg.BucketName)
	return &Client{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		config:    cfg,
	}, nil
}

// Ping checks that the bucket is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

// SignUpload presigns a PUT for a fresh key under folder. A non-empty
// contentType becomes part of the signature, so the browser must send it.
func (c *Client) SignUpload(ctx context.Context, folder, ext, contentType string) (*UploadTicket, error) {
	key := ObjectKey(folder, uuid.NewString()+ext)
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := c.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(uploadTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	headers := make(map[string]string)
	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	return &UploadTicket{
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   headers,
		Key:       key,
		Folder:    folder,
		PublicURL: c.config.PublicURL(key),
		ExpiresAt: time.Now().Add(uploadTTL).UTC(),
	}, nil
}

// Put stores body under folder with a generated name and returns its public URL.
func (c *Client) Put(ctx context.Context, folder, ext, contentType string, body []byte) (string, error) {
	key := ObjectKey(folder, uuid.NewString()+ext)
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"upload-source": "appfolio",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[ObjectStore] Uploaded s3://%s/%s (%d bytes)", c.config.BucketName, key, len(body))
	return c.config.PublicURL(key), nil
}

// Delete removes key from the bucket. Deleting a missing key succeeds.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete s3://%s/%s: %w", c.config.BucketName, key, err)
	}
	return nil
}

// KeyForURL maps a public URL issued by this client back to its object key.
func (c *Client) KeyForURL(url string) (string, bool) {
	return c.config.KeyForURL(url)
}

func (c *Client) OwnedKeyForURL(url, ownerID string) (string, bool) {
	return c.config.OwnedKeyForURL(url, ownerID)
}

// ObjectKey joins folder and name into a slash separated key.
func ObjectKey(folder, name string) string {
	return path.Join(strings.Trim(folder, "/"), name)
}

// OwnerFolder is the part of folder that holds ownerID's files.
func OwnerFolder(folder, ownerID string) string {
	return ObjectKey(folder, ownerID)
}
