package entitlements

import (
	"fmt"
	"strings"

	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

const CodeScreenshotLimitReached = "SCREENSHOT_LIMIT_REACHED"

const (
	freeScreenshotLimit = 3
	// PRO is reported as a concrete number so clients can render "used / limit".
	proScreenshotLimit = 50
)

// Normalize maps stored or user supplied plan names onto a known plan.
// Unknown values fall back to FREE.
func Normalize(raw string) Plan {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(PlanPro):
		return PlanPro
	default:
		return PlanFree
	}
}

// Rank orders plans; higher is better.
func Rank(p Plan) int {
	switch Normalize(string(p)) {
	case PlanPro:
		return 1
	default:
		return 0
	}
}

// IsTop reports whether no upgrade is available above p.
func IsTop(p Plan) bool {
	return Rank(p) >= Rank(PlanPro)
}

// ScreenshotLimit returns how many screenshots one application may hold.
func ScreenshotLimit(p Plan) int {
	switch Normalize(string(p)) {
	case PlanPro:
		return proScreenshotLimit
	default:
		return freeScreenshotLimit
	}
}

// CheckScreenshotQuota rejects an insert when count already reached the
// plan's ceiling. The returned error carries the plan and the limit.
func CheckScreenshotQuota(p Plan, count int) error {
	plan := Normalize(string(p))
	limit := ScreenshotLimit(plan)
	if count < limit {
		return nil
	}

	var msg string
	if plan == PlanFree {
		msg = fmt.Sprintf("Screenshot limit reached (%d). Upgrade to Pro to add more.", limit)
	} else {
		msg = "Screenshot limit reached. More screenshots would be overwhelming for the person who visits your profile"
	}
	return apperr.New(apperr.KindQuotaExceeded, msg).
		WithCode(CodeScreenshotLimitReached).
		WithDetail("plan", string(plan)).
		WithDetail("limit", limit)
}
