package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	Cart     CartReader
	Catalog  CatalogReader
	Delivery DeliveryRepo
	Orders   OrderWriter
	Notifier OrderNotifier

	log           *slog.Logger
	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, delivery DeliveryRepo, orders OrderWriter, notifier OrderNotifier, maxConcurrent int, log *slog.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Delivery:      delivery,
		Orders:        orders,
		Notifier:      notifier,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

func (s *Service) DeliveryOptions(ctx context.Context) ([]domain.DeliveryOption, error) {
	return s.Delivery.ListActive(ctx)
}

func (s *Service) Quote(ctx context.Context, sessionID, deliveryOptionID string) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Quote{}, err
	}
	if len(items) == 0 {
		return domain.Quote{}, domain.ErrEmptyCart
	}

	lines, notices, err := s.resolveLines(ctx, items)
	if err != nil {
		return domain.Quote{}, err
	}
	if len(lines) == 0 {
		return domain.Quote{}, domain.ErrEmptyCart
	}

	delivery, err := s.resolveDelivery(ctx, deliveryOptionID)
	if err != nil {
		return domain.Quote{}, err
	}

	subTotal := decimal.Zero
	for _, line := range lines {
		subTotal = subTotal.Add(line.LineTotal)
	}

	return domain.Quote{
		Lines:    lines,
		SubTotal: subTotal,
		Delivery: delivery,
		Total:    subTotal.Add(delivery.Price),
		Notices:  notices,
	}, nil
}

// PlaceOrder turns the session cart into an order. Stock is validated up
// front, then taken inside the order transaction; a line that lost its stock
// in between fails the whole placement with ErrReservationConflict.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (orderdomain.Order, error) {
	if err := req.Validate(); err != nil {
		return orderdomain.Order{}, err
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		req.CustomerID = req.SessionID
	}

	items, err := s.Cart.GetCart(ctx, req.SessionID)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if len(items) == 0 {
		return orderdomain.Order{}, domain.ErrEmptyCart
	}

	violations, err := s.Cart.Validate(ctx, req.SessionID)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if len(violations) > 0 {
		return orderdomain.Order{}, &domain.StockValidationError{Violations: violations}
	}

	lines, notices, err := s.resolveLines(ctx, items)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if len(notices) > 0 {
		// a product was deleted after validation
		missing := make([]cartdomain.Violation, 0, len(notices))
		for _, n := range notices {
			missing = append(missing, cartdomain.Violation{
				ProductID: n.ProductID,
				Kind:      cartdomain.ViolationProductMissing,
				Message:   n.Message,
			})
		}
		return orderdomain.Order{}, &domain.StockValidationError{Violations: missing}
	}

	delivery, err := s.resolveDelivery(ctx, req.DeliveryOptionID)
	if err != nil {
		return orderdomain.Order{}, err
	}

	subTotal := decimal.Zero
	orderItems := make([]orderdomain.OrderItemRequest, 0, len(lines))
	for _, line := range lines {
		subTotal = subTotal.Add(line.LineTotal)
		orderItems = append(orderItems, orderdomain.OrderItemRequest{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order, err := s.Orders.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		CustomerID:       req.CustomerID,
		Shipping:         req.Shipping,
		DeliveryOptionID: delivery.ID,
		DeliveryName:     delivery.Name,
		DeliveryCost:     delivery.Price,
		PaymentMethod:    req.PaymentMethod,
		AmountPaid:       subTotal.Add(delivery.Price),
		Items:            orderItems,
	})
	if err != nil {
		return orderdomain.Order{}, err
	}

	// The order is committed; a stale cart is only an inconvenience.
	if err := s.Cart.Clear(ctx, req.SessionID); err != nil {
		s.log.Error("failed to clear cart after order",
			slog.String("session_id", req.SessionID),
			slog.String("order_id", order.ID),
			slog.Any("err", err))
	}

	if s.Notifier != nil {
		s.Notifier.OrderPlaced(order)
	}

	s.log.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("session_id", req.SessionID),
		slog.String("amount_paid", order.AmountPaid.StringFixed(2)))
	return order, nil
}

func (s *Service) resolveLines(ctx context.Context, items []CartItem) ([]domain.QuoteLine, []cartdomain.Notice, error) {
	lines := make([]domain.QuoteLine, len(items))
	missing := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("%w: quantity must be greater than zero: %d", stockdomain.ErrInvalidQuantity, it.Quantity)
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if errors.Is(err, stockdomain.ErrProductNotFound) {
				missing[idx] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				LineTotal: it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]domain.QuoteLine, 0, len(lines))
	var notices []cartdomain.Notice
	for idx, line := range lines {
		if missing[idx] {
			notices = append(notices, cartdomain.Notice{
				ProductID: items[idx].ProductID,
				Message:   fmt.Sprintf("product %s is no longer available", items[idx].ProductID),
			})
			continue
		}
		out = append(out, line)
	}
	return out, notices, nil
}

// resolveDelivery falls back to the first active option when id is empty,
// unknown or inactive.
func (s *Service) resolveDelivery(ctx context.Context, id string) (domain.DeliveryOption, error) {
	if strings.TrimSpace(id) != "" {
		opt, err := s.Delivery.Get(ctx, id)
		if err == nil && opt.Active {
			return opt, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNoDeliveryOption) {
			return domain.DeliveryOption{}, err
		}
	}

	active, err := s.Delivery.ListActive(ctx)
	if err != nil {
		return domain.DeliveryOption{}, err
	}
	if len(active) == 0 {
		return domain.DeliveryOption{}, domain.ErrNoDeliveryOption
	}
	return active[0], nil
}
