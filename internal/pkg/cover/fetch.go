package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/appfolio/showcase-api/internal/pkg/upload"
)

const maxSourceBytes = 15 << 20

// Fetcher downloads and decodes remote images.
type Fetcher struct {
	HTTPClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch GETs rawURL and decodes the body, honouring EXIF orientation.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errors.New("image url must be http(s)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	// Redirects could leave the bucket, so a 3xx fails like any other status.
	client := *f.HTTPClient
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image download failed: status=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxSourceBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxSourceBytes)
	}

	if _, err := upload.SniffImage(body); err != nil {
		return nil, fmt.Errorf("image %s: %w", rawURL, err)
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
