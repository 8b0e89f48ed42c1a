package showcase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/billing"
	"github.com/appfolio/showcase-api/internal/pkg/entitlements"
)

func TestScreenshotQuotaLiftsAfterUpgrade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.onboard(t, "sub_a", "alice")
	app := h.createApp(t, "sub_a", "Tracker")

	for i := 0; i < 3; i++ {
		_, err := h.addShot("sub_a", app.ID, "https://img.test/shot.png")
		require.NoError(t, err)
	}

	_, err := h.addShot("sub_a", app.ID, "https://img.test/fourth.png")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindQuotaExceeded, ae.Kind)
	assert.Equal(t, entitlements.CodeScreenshotLimitReached, ae.Code)
	assert.Equal(t, "FREE", ae.Details["plan"])
	assert.Equal(t, 3, ae.Details["limit"])

	stored, err := h.repos.Application.GetOwned(ctx, app.ID, acc.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Screenshots, 3)

	cfg := billing.Config{KeyID: "rzp_test", KeySecret: "secret", Amount: 39900, Currency: "INR"}
	payments := billing.NewService(h.repos.Account, nil, cfg)
	res, err := payments.VerifyPayment(ctx, acc, billing.VerifyInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: billing.Signature("secret", "order_1", "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PRO", res.Plan)

	shots, err := h.addShot("sub_a", app.ID, "https://img.test/fourth.png")
	require.NoError(t, err)
	require.Len(t, shots, 4)
	assert.Equal(t, 4, shots[3].Order)
	assert.Equal(t, "https://img.test/fourth.png", shots[3].URL)

	detail, err := h.svc.GetApplication(ctx, "sub_a", app.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, detail.Meta.ScreenshotLimit)
}

func TestScreenshotLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.onboard(t, "sub_a", "alice")
	app := h.createApp(t, "sub_a", "Tracker")

	_, err := h.addShot("sub_a", app.ID, "https://img.test/1.png")
	require.NoError(t, err)
	_, err = h.addShot("sub_a", app.ID, "https://img.test/2.png")
	require.NoError(t, err)
	shots, err := h.addShot("sub_a", app.ID, "https://img.test/3.png")
	require.NoError(t, err)
	require.Len(t, shots, 3)
	for i, s := range shots {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, i+1, s.Order)
	}

	shots, err = h.svc.UpdateScreenshot(ctx, "sub_a", app.ID, shots[1].ID, ScreenshotPatch{Caption: ptr(" Home screen ")})
	require.NoError(t, err)
	assert.Equal(t, "Home screen", shots[1].Caption)
	assert.Equal(t, "https://img.test/2.png", shots[1].URL)
	assert.Equal(t, 1080, shots[1].Width)

	shots, err = h.svc.DeleteScreenshot(ctx, "sub_a", app.ID, shots[0].ID)
	require.NoError(t, err)
	require.Len(t, shots, 2)
	assert.Equal(t, "https://img.test/2.png", shots[0].URL)
	assert.Equal(t, 1, shots[0].Order)
	assert.Equal(t, 2, shots[1].Order)

	shots, err = h.svc.ReorderScreenshots(ctx, "sub_a", app.ID, ReorderScreenshotsInput{ScreenshotIDs: []string{shots[1].ID, shots[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/3.png", shots[0].URL)
	assert.Equal(t, 1, shots[0].Order)
	assert.Equal(t, "https://img.test/2.png", shots[1].URL)
	assert.Equal(t, 2, shots[1].Order)
}

func TestScreenshotErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.onboard(t, "sub_a", "alice")
	app := h.createApp(t, "sub_a", "Tracker")
	_, err := h.addShot("sub_a", app.ID, "https://img.test/1.png")
	require.NoError(t, err)
	shots, err := h.addShot("sub_a", app.ID, "https://img.test/2.png")
	require.NoError(t, err)

	_, err = h.svc.UpdateScreenshot(ctx, "sub_a", app.ID, "missing", ScreenshotPatch{Caption: ptr("x")})
	ae, _ := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindNotFound, ae.Kind)
	assert.Equal(t, "Screenshot not found", ae.Message)

	_, err = h.svc.DeleteScreenshot(ctx, "sub_a", app.ID, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	for _, ids := range [][]string{
		{shots[0].ID},
		{shots[0].ID, shots[0].ID},
		{shots[0].ID, "missing"},
		{shots[0].ID, shots[1].ID, "extra"},
	} {
		_, err := h.svc.ReorderScreenshots(ctx, "sub_a", app.ID, ReorderScreenshotsInput{ScreenshotIDs: ids})
		ae, ok := apperr.As(err)
		require.True(t, ok, "%v", ids)
		assert.Equal(t, apperr.KindInvalidArgument, ae.Kind)
		assert.Equal(t, "Invalid screenshot id in reorder list", ae.Message)
	}

	_, err = h.svc.ReorderScreenshots(ctx, "sub_a", app.ID, ReorderScreenshotsInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := h.repos.Application.GetOwned(ctx, app.ID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, shots, stored.Screenshots)

	w := 10
	_, err = h.svc.AddScreenshot(ctx, "sub_a", app.ID, ScreenshotInput{URL: "https://img.test/x.png", Width: &w})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = h.svc.AddScreenshot(ctx, "sub_a", app.ID, ScreenshotInput{URL: "ftp is not a url", Width: &w, Height: &w})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestScreenshotInvalidatesPublicPages(t *testing.T) {
	h := newHarness(t)
	h.onboard(t, "sub_a", "alice")
	app := h.createApp(t, "sub_a", "Tracker")
	h.cache.invalidated = nil

	_, err := h.addShot("sub_a", app.ID, "https://img.test/1.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"appfolio:public:profile:alice", "appfolio:public:app:alice:tracker"}, h.cache.invalidated)
}
