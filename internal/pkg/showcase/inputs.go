package showcase

import (
	"strings"

	"github.com/appfolio/showcase-api/app/models"
)

type OnboardInput struct {
	Username    string `json:"username" validate:"required,min=3,max=20"`
	DisplayName string `json:"displayName" validate:"max=120"`
	Headline    string `json:"headline" validate:"max=160"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type CreateApplicationInput struct {
	Name             string   `json:"name" validate:"required,min=2,max=80"`
	ShortDescription string   `json:"shortDescription" validate:"max=280"`
	Platform         []string `json:"platform" validate:"omitempty,max=3,dive,platform"`
}

// HeroInput is a partial update; nil fields are left alone. An empty
// appIconUrl clears the icon.
type HeroInput struct {
	Name       *string  `json:"name" validate:"omitnil,min=2,max=80"`
	Platform   []string `json:"platform" validate:"omitnil,min=1,max=3,dive,platform"`
	AppIconURL *string  `json:"appIconUrl"`
}

type OverviewInput struct {
	Bullets []string `json:"bullets" validate:"min=3,max=5,dive,min=2,max=120"`
}

type ChallengesInput struct {
	Intro   string   `json:"intro" validate:"max=600"`
	Bullets []string `json:"bullets" validate:"min=2,max=8,dive,min=2,max=160"`
}

type DiagramInput struct {
	Nodes    []map[string]any `json:"nodes" validate:"required"`
	Edges    []map[string]any `json:"edges" validate:"required"`
	Viewport *models.Viewport `json:"viewport"`
}

type DiagramImageInput struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

type UserFlowTextInput struct {
	Mode    string   `json:"mode" validate:"required,flowmode"`
	Bullets []string `json:"bullets" validate:"max=12,dive,min=2,max=160"`
}

type VisibilityInput struct {
	Visibility string `json:"visibility" validate:"required,visibility"`
}

type ScreenshotInput struct {
	URL     string `json:"url" validate:"required,url"`
	Width   *int   `json:"width" validate:"required,gte=0"`
	Height  *int   `json:"height" validate:"required,gte=0"`
	Caption string `json:"caption" validate:"max=140"`
}

type ScreenshotPatch struct {
	URL     *string `json:"url" validate:"omitnil,url"`
	Width   *int    `json:"width" validate:"omitnil,gte=0"`
	Height  *int    `json:"height" validate:"omitnil,gte=0"`
	Caption *string `json:"caption" validate:"omitnil,max=140"`
}

type ReorderScreenshotsInput struct {
	ScreenshotIDs []string `json:"screenshotIds" validate:"required,min=1,dive,min=1"`
}

type StepInput struct {
	Title       string   `json:"title" validate:"required,min=2,max=80"`
	Description string   `json:"description" validate:"max=500"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=20"`
}

type StepPatch struct {
	Title       *string  `json:"title" validate:"omitnil,min=2,max=80"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
	ImageURL    *string  `json:"imageUrl" validate:"omitnil,url"`
	Tags        []string `json:"tags" validate:"omitnil,dive,min=1,max=20"`
}

type ReorderStepsInput struct {
	StepIDs []string `json:"stepIds" validate:"required,min=1,dive,min=1"`
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func dropBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// SignUploadInput optionally describes the file about to be uploaded.
type SignUploadInput struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}
