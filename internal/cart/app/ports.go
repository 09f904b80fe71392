package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// SessionStore persists one cart per session. Load returns an empty cart for
// an unknown session. Update runs fn against the latest stored cart and
// writes the result only when fn returns nil; fn may run more than once.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (domain.Cart, error)
	Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (domain.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProductReader returns stock domain ErrProductNotFound for unknown products.
type ProductReader interface {
	Product(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	OnSale    bool
	Available int
}
