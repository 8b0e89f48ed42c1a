package showcase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

func TestOnboardNormalizesHandle(t *testing.T) {
	h := newHarness(t)

	acc, err := h.svc.Onboard(context.Background(), "sub_1", OnboardInput{
		Username:    "  Jane.Doe!  ",
		DisplayName: " Jane ",
		Email:       "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "janedoe", acc.Username)
	assert.Equal(t, "Jane", acc.DisplayName)
	assert.Equal(t, "FREE", acc.Plan)
	assert.Equal(t, "sub_1", acc.Subject())

	me, err := h.svc.GetMe(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.True(t, me.Onboarded)
	assert.Equal(t, acc.ID, me.User.ID)
}

func TestOnboardConflicts(t *testing.T) {
	h := newHarness(t)
	h.onboard(t, "sub_1", "maker")

	_, err := h.svc.Onboard(context.Background(), "sub_2", OnboardInput{Username: "MAKER"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, ae.Kind)
	assert.Equal(t, CodeUsernameTaken, ae.Code)
	assert.Equal(t, "Username already taken", ae.Message)

	_, err = h.svc.Onboard(context.Background(), "sub_1", OnboardInput{Username: "another"})
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyOnboarded, ae.Code)
	assert.Equal(t, "User already onboarded", ae.Message)
}

func TestOnboardValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, in := range []OnboardInput{
		{Username: "ab"},
		{Username: "a!!b"},
		{Username: "this_handle_is_too_long"},
		{Username: "valid_name", Email: "not-an-email"},
	} {
		_, err := h.svc.Onboard(ctx, "sub_1", in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v: %v", in, err)
	}

	_, err := h.svc.Onboard(ctx, "", OnboardInput{Username: "valid"})
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestGetMeNotOnboarded(t *testing.T) {
	h := newHarness(t)
	me, err := h.svc.GetMe(context.Background(), "sub_nobody")
	require.NoError(t, err)
	assert.False(t, me.Onboarded)
	assert.Nil(t, me.User)
}
