package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

// OrderRepo implementations reserve stock for every item inside CreateOrderTx
// and release it inside UpdateStatusTx when the order is cancelled, so the
// order row and the stock counts always move together.
type OrderRepo interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateStatusTx(ctx context.Context, id string, to domain.Status, at time.Time) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]domain.Order, error)
}
