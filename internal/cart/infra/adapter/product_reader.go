package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
)

type CatalogProductReader struct {
	svc *catalogapp.Service
}

func NewCatalogProductReader(svc *catalogapp.Service) *CatalogProductReader {
	return &CatalogProductReader{svc: svc}
}

func (r *CatalogProductReader) Product(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartapp.Product{}, stockdomain.ProductNotFound(productID)
	}
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		OnSale:    p.OnSale,
		Available: p.AvailableQuantity,
	}, nil
}
