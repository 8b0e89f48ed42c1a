package upload

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		ext         string
		mime        string
		err         error
	}{
		{"derived from extension", "Shot.PNG", "", ".png", "image/png", nil},
		{"jpeg alias", "a.jpeg", "image/jpeg", ".jpeg", "image/jpeg", nil},
		{"parameters ignored", "a.webp", "image/webp; q=1", ".webp", "image/webp", nil},
		{"svg rejected", "logo.svg", "image/svg+xml", "", "", ErrUnsupportedType},
		{"no extension", "screenshot", "image/png", "", "", ErrUnsupportedType},
		{"unknown mime", "a.png", "application/pdf", "", "", ErrUnsupportedType},
		{"mismatch", "a.png", "image/jpeg", "", "", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, mime, err := Describe(tt.file, tt.contentType)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
			assert.Equal(t, tt.mime, mime)
		})
	}
}

func TestSniffImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(4, 4, color.Black)))

	mime, err := SniffImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = SniffImage([]byte("<!DOCTYPE html><html><body>hi</body></html>"))
	assert.ErrorIs(t, err, ErrScriptable)

	_, err = SniffImage([]byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	assert.ErrorIs(t, err, ErrScriptable)

	_, err = SniffImage([]byte{0x00, 0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
