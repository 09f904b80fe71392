package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
)

var (
	ErrLineNotFound   = errors.New("product not in cart")
	ErrInvalidSession = errors.New("session id is required")

	// ErrConcurrentUpdate is returned by stores that gave up retrying a contended write.
	ErrConcurrentUpdate = errors.New("cart was modified concurrently, retry")
)

type Service struct {
	store    SessionStore
	products ProductReader
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store SessionStore, products ProductReader, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, ErrInvalidSession
	}
	return s.store.Load(ctx, sessionID)
}

// Add increments the line by quantity. The stock comparison is advisory:
// nothing is held until checkout reserves it.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, ErrInvalidSession
	}
	if !stockdomain.ValidQuantity(quantity) {
		return domain.Cart{}, stockdomain.ErrInvalidQuantity
	}

	return s.store.Update(ctx, sessionID, func(cart *domain.Cart) error {
		product, err := s.products.Product(ctx, productID)
		if err != nil {
			return err
		}
		// Lines are keyed by the catalog's id, not the caller's spelling of it.
		current := cart.Quantity(product.ID)
		if err := checkPurchasable(product, current, quantity); err != nil {
			return err
		}
		cart.Put(product.ID, current+quantity, product.UnitPrice, s.now())
		return nil
	})
}

// Update replaces the line quantity; zero or less removes the line.
func (s *Service) Update(ctx context.Context, sessionID, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, productID)
	}
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, ErrInvalidSession
	}
	if !stockdomain.ValidQuantity(quantity) {
		return domain.Cart{}, stockdomain.ErrInvalidQuantity
	}

	return s.store.Update(ctx, sessionID, func(cart *domain.Cart) error {
		line, ok := cart.Line(productID)
		if !ok {
			return ErrLineNotFound
		}
		product, err := s.products.Product(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if err := checkPurchasable(product, 0, quantity); err != nil {
			return err
		}
		cart.Put(line.ProductID, quantity, line.UnitPrice, s.now())
		return nil
	})
}

// Remove succeeds whether or not the line exists.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, ErrInvalidSession
	}
	return s.store.Update(ctx, sessionID, func(cart *domain.Cart) error {
		if cart.Remove(productID) {
			cart.UpdatedAt = s.now()
		}
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	return s.store.Delete(ctx, sessionID)
}

// Materialize resolves every line against the live catalog. Lines whose
// product no longer exists are dropped from the stored cart and reported.
func (s *Service) Materialize(ctx context.Context, sessionID string) ([]domain.Item, []domain.Notice, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]domain.Item, 0, len(cart.Lines))
	var notices []domain.Notice
	for _, line := range cart.Lines {
		p, err := s.products.Product(ctx, line.ProductID)
		if errors.Is(err, stockdomain.ErrProductNotFound) {
			notices = append(notices, domain.Notice{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("product %s is no longer available and was removed from your cart", line.ProductID),
			})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		items = append(items, domain.Item{
			ProductID: line.ProductID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.Total(),
			OnSale:    p.OnSale,
			Available: p.Available,
		})
	}

	if len(notices) == 0 {
		return items, nil, nil
	}

	_, err = s.store.Update(ctx, sessionID, func(c *domain.Cart) error {
		for _, n := range notices {
			c.Remove(n.ProductID)
		}
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("dropped stale cart lines",
		slog.String("session_id", sessionID),
		slog.Int("dropped", len(notices)))
	return items, notices, nil
}

// ValidateAgainstStock is the read-only gate run before checkout.
func (s *Service) ValidateAgainstStock(ctx context.Context, sessionID string) ([]domain.Violation, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var violations []domain.Violation
	for _, line := range cart.Lines {
		p, err := s.products.Product(ctx, line.ProductID)
		if errors.Is(err, stockdomain.ErrProductNotFound) {
			violations = append(violations, domain.Violation{
				ProductID: line.ProductID,
				Kind:      domain.ViolationProductMissing,
				Requested: line.Quantity,
				Message:   fmt.Sprintf("product with id %s no longer exists", line.ProductID),
			})
			continue
		}
		if err != nil {
			return nil, err
		}

		switch {
		case !p.OnSale || p.Available == 0:
			violations = append(violations, domain.Violation{
				ProductID: p.ID,
				Name:      p.Name,
				Kind:      domain.ViolationOutOfStock,
				Requested: line.Quantity,
				Available: p.Available,
				Message:   fmt.Sprintf("%s is out of stock", p.Name),
			})
		case line.Quantity > p.Available:
			violations = append(violations, domain.Violation{
				ProductID: p.ID,
				Name:      p.Name,
				Kind:      domain.ViolationInsufficientQuantity,
				Requested: line.Quantity,
				Available: p.Available,
				Message:   fmt.Sprintf("only %d %s available in stock", p.Available, p.Name),
			})
		}
	}
	return violations, nil
}

// checkPurchasable compares without summing current and extra, so a huge
// extra cannot wrap around and slip under the available quantity.
func checkPurchasable(p Product, current, extra int) error {
	if !p.OnSale {
		return fmt.Errorf("%w: %s", stockdomain.ErrNotPurchasable, p.Name)
	}
	if extra > p.Available-current {
		return &stockdomain.InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: current + extra,
			Available: p.Available,
		}
	}
	return nil
}
