package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, sessionID string) ([]checkoutapp.CartItem, error) {
	cart, err := r.svc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, checkoutapp.CartItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return items, nil
}

func (r *CartServiceReader) Validate(ctx context.Context, sessionID string) ([]cartdomain.Violation, error) {
	return r.svc.ValidateAgainstStock(ctx, sessionID)
}

func (r *CartServiceReader) Clear(ctx context.Context, sessionID string) error {
	return r.svc.Clear(ctx, sessionID)
}
