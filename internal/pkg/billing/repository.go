package billing

import (
	"context"

	"github.com/appfolio/showcase-api/app/repository"
)

// Repository is the account storage the billing service writes to.
// repository.AccountRepository satisfies it.
type Repository interface {
	UpdatePlan(ctx context.Context, accountID string, update repository.PlanUpdate) error
}

// OrderCreator opens an order at the payment provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}
