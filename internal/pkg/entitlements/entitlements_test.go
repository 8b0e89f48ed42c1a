package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "FREE", want: PlanFree},
		{in: "free", want: PlanFree},
		{in: " pro ", want: PlanPro},
		{in: "PRO", want: PlanPro},
		{in: "premium", want: PlanFree},
		{in: "", want: PlanFree},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestRankAndTop(t *testing.T) {
	assert.Less(t, Rank(PlanFree), Rank(PlanPro))
	assert.True(t, IsTop(PlanPro))
	assert.False(t, IsTop(PlanFree))
}

func TestCheckScreenshotQuota(t *testing.T) {
	for _, plan := range []Plan{PlanFree, PlanPro} {
		limit := ScreenshotLimit(plan)
		for count := 0; count < limit; count++ {
			require.NoError(t, CheckScreenshotQuota(plan, count), "%s count=%d", plan, count)
		}

		err := CheckScreenshotQuota(plan, limit)
		require.Error(t, err)
		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindQuotaExceeded, ae.Kind)
		assert.Equal(t, CodeScreenshotLimitReached, ae.Code)
		assert.Equal(t, string(plan), ae.Details["plan"])
		assert.Equal(t, limit, ae.Details["limit"])
	}
}

func TestFreeQuotaMessageMentionsUpgrade(t *testing.T) {
	err := CheckScreenshotQuota(PlanFree, 3)
	require.Error(t, err)
	assert.Equal(t, "Screenshot limit reached (3). Upgrade to Pro to add more.", err.Error())
}
