package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

type sample struct {
	Title    string   `json:"title" validate:"required,min=2,max=80"`
	ImageURL *string  `json:"imageUrl" validate:"omitempty,url"`
	Tags     []string `json:"tags" validate:"omitempty,dive,min=1,max=20"`
	Platform []string `json:"platform" validate:"omitempty,min=1,max=3,dive,platform"`
}

func TestStructOK(t *testing.T) {
	url := "https://example.com/a.png"
	err := Struct(sample{Title: "Intro", ImageURL: &url, Tags: []string{"ux"}, Platform: []string{"IOS"}})
	assert.NoError(t, err)
}

func TestStructCollectsFields(t *testing.T) {
	bad := "not a url"
	err := Struct(sample{Title: "x", ImageURL: &bad, Platform: []string{"LINUX"}})
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, ae.Kind)

	fields, ok := ae.Details["fields"].([]FieldError)
	require.True(t, ok)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "imageUrl")
	assert.Contains(t, names, "platform[0]")
}

func TestInvalid(t *testing.T) {
	err := Invalid("appIconUrl", "url", "appIconUrl must be a URL or empty")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "appIconUrl must be a URL or empty", err.Error())
}
