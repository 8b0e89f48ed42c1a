// Package upload decides which image files may be uploaded or fetched.
package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("only JPG, JPEG, PNG, GIF and WEBP images are supported")
	ErrScriptable      = errors.New("HTML, XML and SVG content is not allowed")
	ErrTypeMismatch    = errors.New("content type does not match the file extension")
)

// SVG stays out until there is a sanitizer.
var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Describe checks the metadata a client declares before uploading and returns
// the normalized extension and content type. An empty contentType is derived
// from the extension.
func Describe(fileName, contentType string) (ext, mime string, err error) {
	ext = strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	expected, ok := mimeByExt[ext]
	if !ok {
		return "", "", ErrUnsupportedType
	}

	mime = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" {
		return ext, expected, nil
	}
	if !allowedMime[mime] {
		return "", "", ErrUnsupportedType
	}
	if mime != expected {
		return "", "", ErrTypeMismatch
	}
	return ext, mime, nil
}

// SniffImage inspects the first bytes of a file and returns its detected
// image type. Scriptable and unknown content is rejected.
func SniffImage(head []byte) (string, error) {
	detected := http.DetectContentType(head)
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}

	switch {
	case strings.HasPrefix(detected, "text/html"),
		strings.HasPrefix(detected, "application/xhtml"),
		strings.HasPrefix(detected, "text/xml"),
		strings.HasPrefix(detected, "application/xml"),
		detected == "image/svg+xml":
		return "", ErrScriptable
	case allowedMime[detected]:
		return detected, nil
	default:
		return "", ErrUnsupportedType
	}
}
