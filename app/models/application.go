package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/appfolio/showcase-api/internal/pkg/collection"
)

const (
	VISIBILITY_PUBLIC   = "PUBLIC"
	VISIBILITY_UNLISTED = "UNLISTED"
	VISIBILITY_PRIVATE  = "PRIVATE"

	PLATFORM_ANDROID = "ANDROID"
	PLATFORM_IOS     = "IOS"
	PLATFORM_WINDOWS = "WINDOWS"

	FLOW_MODE_TEXT    = "TEXT"
	FLOW_MODE_DIAGRAM = "DIAGRAM"
	FLOW_MODE_BOTH    = "BOTH"

	STATUS_MVP = "MVP"

	DiagramVersion = 1
)

// AppLinks are the store and repository links of an application.
type AppLinks struct {
	GitHub    string `json:"github,omitempty" bson:"github,omitempty"`
	LiveDemo  string `json:"liveDemo,omitempty" bson:"liveDemo,omitempty"`
	Expo      string `json:"expo,omitempty" bson:"expo,omitempty"`
	PlayStore string `json:"playStore,omitempty" bson:"playStore,omitempty"`
	AppStore  string `json:"appStore,omitempty" bson:"appStore,omitempty"`
}

type Viewport struct {
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Zoom float64 `json:"zoom" bson:"zoom"`
}

// Diagram is a node/edge graph edited by the client. Nodes and edges are kept
// as opaque documents.
type Diagram struct {
	Version  int              `json:"version" bson:"version"`
	Nodes    []map[string]any `json:"nodes" bson:"nodes"`
	Edges    []map[string]any `json:"edges" bson:"edges"`
	Viewport *Viewport        `json:"viewport,omitempty" bson:"viewport,omitempty"`
}

type UserFlowText struct {
	Mode    string                      `json:"mode" bson:"mode"`
	Bullets datatypes.JSONSlice[string] `json:"bullets" bson:"bullets"`
}

// Application is the showcase aggregate. Screenshots and walkthrough steps are
// embedded and always written together with their parent.
type Application struct {
	ID                          string                      `gorm:"type:char(36);primaryKey" json:"id" bson:"_id"`
	OwnerID                     string                      `gorm:"type:char(36);not null;index;uniqueIndex:idx_owner_slug,priority:1" json:"ownerId" bson:"ownerId"`
	Name                        string                      `gorm:"type:varchar(80);not null" json:"name" bson:"name"`
	Slug                        string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_owner_slug,priority:2" json:"slug" bson:"slug"`
	ShortDescription            string                      `gorm:"type:varchar(280)" json:"shortDescription" bson:"shortDescription"`
	LongDescription             string                      `gorm:"type:text" json:"longDescription" bson:"longDescription"`
	OverviewBullets             datatypes.JSONSlice[string] `gorm:"type:json" json:"overviewBullets" bson:"overviewBullets"`
	ChallengesIntro             string                      `gorm:"type:text" json:"challengesIntro" bson:"challengesIntro"`
	ChallengesBullets           datatypes.JSONSlice[string] `gorm:"type:json" json:"challengesBullets" bson:"challengesBullets"`
	Platform                    datatypes.JSONSlice[string] `gorm:"type:json" json:"platform" bson:"platform"`
	Status                      string                      `gorm:"type:varchar(32);default:MVP" json:"status" bson:"status"`
	Category                    string                      `gorm:"type:varchar(64)" json:"category" bson:"category"`
	CoverImageURL               string                      `gorm:"type:varchar(1024)" json:"coverImageUrl" bson:"coverImageUrl"`
	AppIconURL                  string                      `gorm:"type:varchar(1024)" json:"appIconUrl" bson:"appIconUrl"`
	HighlightTags               datatypes.JSONSlice[string] `gorm:"type:json" json:"highlightTags" bson:"highlightTags"`
	Links                       AppLinks                    `gorm:"serializer:json;type:json" json:"links" bson:"links"`
	Screenshots                 []Screenshot                `gorm:"serializer:json;type:json" json:"screenshots" bson:"screenshots"`
	Walkthrough                 []WalkthroughStep           `gorm:"serializer:json;type:json" json:"walkthrough" bson:"walkthrough"`
	Visibility                  string                      `gorm:"type:varchar(16);not null;default:PUBLIC;index" json:"visibility" bson:"visibility"`
	ArchitectureDiagram         Diagram                     `gorm:"serializer:json;type:json" json:"architectureDiagram" bson:"architectureDiagram"`
	ArchitectureDiagramImageURL string                      `gorm:"type:varchar(1024)" json:"architectureDiagramImageUrl" bson:"architectureDiagramImageUrl"`
	UserFlowDiagram             Diagram                     `gorm:"serializer:json;type:json" json:"userFlowDiagram" bson:"userFlowDiagram"`
	UserFlowText                UserFlowText                `gorm:"serializer:json;type:json" json:"userFlowText" bson:"userFlowText"`
	CreatedAt                   time.Time                   `gorm:"autoCreateTime;index" json:"createdAt" bson:"createdAt"`
	UpdatedAt                   time.Time                   `gorm:"autoUpdateTime" json:"updatedAt" bson:"updatedAt"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	a.PrepareCreate(time.Now())
	return nil
}

// PrepareCreate fills identity and defaults for a new application.
func (a *Application) PrepareCreate(now time.Time) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if len(a.Platform) == 0 {
		a.Platform = datatypes.JSONSlice[string]{PLATFORM_ANDROID}
	}
	if a.Status == "" {
		a.Status = STATUS_MVP
	}
	if a.Visibility == "" {
		a.Visibility = VISIBILITY_PUBLIC
	}
	if a.ArchitectureDiagram.Version == 0 {
		a.ArchitectureDiagram.Version = DiagramVersion
	}
	if a.UserFlowDiagram.Version == 0 {
		a.UserFlowDiagram.Version = DiagramVersion
	}
	if a.UserFlowText.Mode == "" {
		a.UserFlowText.Mode = FLOW_MODE_BOTH
	}
	a.ensureCollections()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// IsPubliclyVisible reports whether the application may appear on public pages.
func (a *Application) IsPubliclyVisible() bool {
	return a.Visibility == VISIBILITY_PUBLIC || a.Visibility == VISIBILITY_UNLISTED
}

// Normalize sorts the embedded collections and makes their orders dense.
// Documents written by older clients may carry gaps.
func (a *Application) Normalize() {
	a.ensureCollections()
	a.Screenshots = collection.Normalize(a.Screenshots)
	a.Walkthrough = collection.Normalize(a.Walkthrough)
}

func (a *Application) ensureCollections() {
	if a.Screenshots == nil {
		a.Screenshots = []Screenshot{}
	}
	if a.Walkthrough == nil {
		a.Walkthrough = []WalkthroughStep{}
	}
	if a.OverviewBullets == nil {
		a.OverviewBullets = datatypes.JSONSlice[string]{}
	}
	if a.ChallengesBullets == nil {
		a.ChallengesBullets = datatypes.JSONSlice[string]{}
	}
	if a.HighlightTags == nil {
		a.HighlightTags = datatypes.JSONSlice[string]{}
	}
	if a.UserFlowText.Bullets == nil {
		a.UserFlowText.Bullets = datatypes.JSONSlice[string]{}
	}
}

// Clone returns a deep copy, so a request can transform its own aggregate
// without touching state other requests may hold.
func (a *Application) Clone() *Application {
	c := *a
	c.OverviewBullets = cloneStrings(a.OverviewBullets)
	c.ChallengesBullets = cloneStrings(a.ChallengesBullets)
	c.Platform = cloneStrings(a.Platform)
	c.HighlightTags = cloneStrings(a.HighlightTags)
	c.UserFlowText.Bullets = cloneStrings(a.UserFlowText.Bullets)
	c.ArchitectureDiagram = a.ArchitectureDiagram.Clone()
	c.UserFlowDiagram = a.UserFlowDiagram.Clone()

	if a.Screenshots != nil {
		c.Screenshots = make([]Screenshot, len(a.Screenshots))
		copy(c.Screenshots, a.Screenshots)
	}
	if a.Walkthrough != nil {
		c.Walkthrough = make([]WalkthroughStep, len(a.Walkthrough))
		for i, step := range a.Walkthrough {
			step.Tags = cloneStrings(step.Tags)
			c.Walkthrough[i] = step
		}
	}
	return &c
}

// Clone deep copies nodes and edges, which are arbitrary nested documents.
func (d Diagram) Clone() Diagram {
	c := d
	c.Nodes = cloneDocs(d.Nodes)
	c.Edges = cloneDocs(d.Edges)
	if d.Viewport != nil {
		v := *d.Viewport
		c.Viewport = &v
	}
	return c
}

func cloneStrings(in datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	if in == nil {
		return nil
	}
	out := make(datatypes.JSONSlice[string], len(in))
	copy(out, in)
	return out
}

func cloneDocs(in []map[string]any) []map[string]any {
	if in == nil {
		return nil
	}
	out := make([]map[string]any, len(in))
	for i, doc := range in {
		out[i] = cloneValue(doc).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	default:
		return v
	}
}

func validatePlatform(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case PLATFORM_ANDROID, PLATFORM_IOS, PLATFORM_WINDOWS:
		return true
	default:
		return false
	}
}

func validateVisibility(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case VISIBILITY_PUBLIC, VISIBILITY_UNLISTED, VISIBILITY_PRIVATE:
		return true
	default:
		return false
	}
}

func validateFlowMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case FLOW_MODE_TEXT, FLOW_MODE_DIAGRAM, FLOW_MODE_BOTH:
		return true
	default:
		return false
	}
}
