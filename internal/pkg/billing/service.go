package billing

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/app/repository"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
	"github.com/appfolio/showcase-api/internal/pkg/entitlements"
	"github.com/appfolio/showcase-api/internal/pkg/metrics"
)

// Service drives the upgrade flow: an order is opened at the provider, the
// client pays, and the returned signature is verified before the plan changes.
// No order state is kept locally; the signed order id is the correlation.
type Service struct {
	repo    Repository
	orders  OrderCreator
	cfg     Config
	nowFunc func() time.Time
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, orders OrderCreator, cfg Config) *Service {
	return &Service{repo: repo, orders: orders, cfg: cfg, nowFunc: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// CreateOrder opens an upgrade order for account.
func (s *Service) CreateOrder(ctx context.Context, account *models.Account) (*OrderResult, error) {
	if account == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if entitlements.IsTop(entitlements.Normalize(account.Plan)) {
		metrics.RecordOrder("already_upgraded")
		return &OrderResult{AlreadyUpgraded: true}, nil
	}

	req := OrderRequest{
		Amount:   s.cfg.Amount,
		Currency: s.cfg.Currency,
		Receipt:  BuildReceipt(account.ID, s.nowFunc()),
		Notes: map[string]string{
			"userId":    account.ID,
			"subjectId": account.Subject(),
		},
	}
	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		log.Errorf("[Billing] order creation failed for account %s: %v", account.ID, err)
		metrics.RecordOrder("upstream_failure")
		return nil, apperr.Wrap(apperr.KindUpstream, "Failed to create order", err)
	}

	metrics.RecordOrder("created")
	return &OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.cfg.KeyID,
	}, nil
}

// VerifyPayment checks the checkout signature and upgrades the account.
// Verifying an already upgraded account succeeds without writing.
func (s *Service) VerifyPayment(ctx context.Context, account *models.Account, in VerifyInput) (*VerifyResult, error) {
	if account == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	orderID := strings.TrimSpace(in.OrderID)
	paymentID := strings.TrimSpace(in.PaymentID)
	signature := strings.TrimSpace(in.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		metrics.RecordVerification("rejected")
		return nil, apperr.InvalidArgument("Missing payment fields")
	}

	if !VerifySignature(s.cfg.KeySecret, orderID, paymentID, signature) {
		log.Warnf("[Billing] signature mismatch for account %s order %s", account.ID, orderID)
		metrics.RecordVerification("invalid_signature")
		return nil, apperr.New(apperr.KindInvalidSignature, "Invalid signature")
	}

	if entitlements.Normalize(account.Plan) == entitlements.PlanPro {
		metrics.RecordVerification("already_upgraded")
		return &VerifyResult{Plan: string(entitlements.PlanPro)}, nil
	}

	update := repository.PlanUpdate{
		Plan:        string(entitlements.PlanPro),
		Status:      models.PLAN_STATUS_ACTIVE,
		PurchasedAt: s.nowFunc().UTC(),
	}
	if err := s.repo.UpdatePlan(ctx, account.ID, update); err != nil {
		metrics.RecordVerification("store_failure")
		return nil, apperr.Internal("Failed to upgrade plan", err)
	}

	log.Infof("[Billing] account %s upgraded to %s via order %s", account.ID, update.Plan, orderID)
	metrics.RecordVerification("verified")
	return &VerifyResult{Plan: update.Plan, Changed: true}, nil
}
