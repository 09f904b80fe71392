package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/stock/domain"
)

type StockRepo interface {
	Level(ctx context.Context, productID string) (domain.Level, error)
	Reserve(ctx context.Context, productID string, quantity int) (int, error)
	Release(ctx context.Context, productID string, quantity int) (int, error)
}
