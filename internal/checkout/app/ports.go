package app

import (
	"context"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/shopspring/decimal"
)

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) ([]CartItem, error)
	Validate(ctx context.Context, sessionID string) ([]cartdomain.Violation, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartItem carries the price captured when the line entered the cart.
type CartItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CatalogReader returns stock domain ErrProductNotFound for unknown products.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID   string
	Name string
}

// DeliveryRepo.Get returns domain.ErrNoDeliveryOption for unknown ids.
type DeliveryRepo interface {
	ListActive(ctx context.Context) ([]domain.DeliveryOption, error)
	Get(ctx context.Context, id string) (domain.DeliveryOption, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error)
}

// OrderNotifier must not block the caller.
type OrderNotifier interface {
	OrderPlaced(order orderdomain.Order)
}
