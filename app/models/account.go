package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PLAN_FREE = "FREE"
	PLAN_PRO  = "PRO"

	PLAN_STATUS_ACTIVE = "ACTIVE"
)

var (
	usernameStrip   = regexp.MustCompile(`[^a-z0-9_]`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
)

// AccountLinks are the profile links shown on a public profile.
type AccountLinks struct {
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Website  string `json:"website,omitempty" bson:"website,omitempty"`
}

// Account is a showcase owner. It is created by onboarding and afterwards only
// its plan fields change.
type Account struct {
	ID              string       `gorm:"type:char(36);primaryKey" json:"id" bson:"_id"`
	SubjectID       *string      `gorm:"type:varchar(191);uniqueIndex" json:"-" bson:"subjectId,omitempty"`
	Email           string       `gorm:"type:varchar(255);index" json:"email" bson:"email" validate:"omitempty,email"`
	Username        string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"username" bson:"username" validate:"required,username"`
	DisplayName     string       `gorm:"type:varchar(120)" json:"displayName" bson:"displayName" validate:"max=120"`
	Headline        string       `gorm:"type:varchar(160)" json:"headline" bson:"headline" validate:"max=160"`
	Bio             string       `gorm:"type:text" json:"bio" bson:"bio"`
	Links           AccountLinks `gorm:"serializer:json;type:json" json:"links" bson:"links"`
	Plan            string       `gorm:"type:varchar(16);not null;default:FREE" json:"plan" bson:"plan"`
	PlanStatus      string       `gorm:"type:varchar(16);not null;default:ACTIVE" json:"planStatus" bson:"planStatus"`
	PlanValidUntil  *time.Time   `json:"planValidUntil,omitempty" bson:"planValidUntil,omitempty"`
	PlanPurchasedAt *time.Time   `json:"planPurchasedAt,omitempty" bson:"planPurchasedAt,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updatedAt" bson:"updatedAt"`
}

// PublicAccount is the projection rendered on public pages.
type PublicAccount struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"displayName"`
	Headline    string       `json:"headline"`
	Bio         string       `json:"bio"`
	Links       AccountLinks `json:"links"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	a.PrepareCreate(time.Now())
	return nil
}

// PrepareCreate fills identity and defaults. Stores without hooks call it
// directly.
func (a *Account) PrepareCreate(now time.Time) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Plan == "" {
		a.Plan = PLAN_FREE
	}
	if a.PlanStatus == "" {
		a.PlanStatus = PLAN_STATUS_ACTIVE
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

func (a *Account) Subject() string {
	if a.SubjectID == nil {
		return ""
	}
	return *a.SubjectID
}

func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Headline:    a.Headline,
		Bio:         a.Bio,
		Links:       a.Links,
	}
}

// Clone returns a copy that shares no pointers with a.
func (a *Account) Clone() *Account {
	c := *a
	if a.SubjectID != nil {
		s := *a.SubjectID
		c.SubjectID = &s
	}
	if a.PlanValidUntil != nil {
		t := *a.PlanValidUntil
		c.PlanValidUntil = &t
	}
	if a.PlanPurchasedAt != nil {
		t := *a.PlanPurchasedAt
		c.PlanPurchasedAt = &t
	}
	return &c
}

func (a *Account) Validate() error {
	return Validator().Struct(a)
}

// NormalizeUsername lowercases, trims and drops every character outside
// [a-z0-9_].
func NormalizeUsername(raw string) string {
	return usernameStrip.ReplaceAllString(strings.TrimSpace(strings.ToLower(raw)), "")
}

// IsValidUsername reports whether u already is a normalized handle of legal length.
func IsValidUsername(u string) bool {
	return usernamePattern.MatchString(u)
}

func validateUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(fl.Field().String())
}
