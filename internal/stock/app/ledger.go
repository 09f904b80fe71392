package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dwikikusuma/storefront/internal/stock/domain"
)

// Ledger is the single source of truth for product availability.
type Ledger struct {
	repo StockRepo
	log  *slog.Logger
}

func NewLedger(repo StockRepo, log *slog.Logger) *Ledger {
	return &Ledger{repo: repo, log: log}
}

func (l *Ledger) HasSufficientStock(ctx context.Context, productID string, quantity int) (bool, error) {
	level, err := l.repo.Level(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return level.Covers(quantity), nil
}

// ReserveStock checks and decrements in one step on the store side, so the
// check is evaluated at execution time rather than at the caller's last read.
func (l *Ledger) ReserveStock(ctx context.Context, productID string, quantity int) error {
	if !domain.ValidQuantity(quantity) {
		return domain.ErrInvalidQuantity
	}
	left, err := l.repo.Reserve(ctx, productID, quantity)
	if err != nil {
		return err
	}
	l.log.Debug("stock reserved",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.Int("available", left))
	return nil
}

func (l *Ledger) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	if !domain.ValidQuantity(quantity) {
		return domain.ErrInvalidQuantity
	}
	left, err := l.repo.Release(ctx, productID, quantity)
	if err != nil {
		return err
	}
	l.log.Info("stock released",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.Int("available", left))
	return nil
}

// CurrentStock reports ok=false when the product does not exist.
func (l *Ledger) CurrentStock(ctx context.Context, productID string) (int, bool, error) {
	level, err := l.repo.Level(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return level.Available, true, nil
}

func (l *Ledger) Level(ctx context.Context, productID string) (domain.Level, error) {
	return l.repo.Level(ctx, productID)
}
