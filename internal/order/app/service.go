package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo OrderRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo OrderRepo, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return domain.Order{}, fmt.Errorf("%w: customer id is required", domain.ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", domain.ErrInvalidOrder)
	}
	if !req.PaymentMethod.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidOrder, req.PaymentMethod)
	}
	if req.DeliveryCost.IsNegative() {
		return domain.Order{}, fmt.Errorf("%w: delivery cost cannot be negative, got %s", domain.ErrInvalidOrder, req.DeliveryCost)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	subTotal := decimal.Zero
	for _, it := range req.Items {
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
		subTotal = subTotal.Add(lineTotal)
	}

	order := domain.Order{
		CustomerID:       req.CustomerID,
		Shipping:         req.Shipping,
		DeliveryOptionID: req.DeliveryOptionID,
		DeliveryName:     req.DeliveryName,
		DeliveryCost:     req.DeliveryCost,
		PaymentMethod:    req.PaymentMethod,
		SubTotal:         subTotal,
		AmountPaid:       req.AmountPaid,
		Status:           domain.StatusPending,
		DateOrdered:      s.now(),
		Items:            items,
	}
	if err := order.CheckAmounts(); err != nil {
		return domain.Order{}, err
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		if errors.Is(err, stockdomain.ErrInsufficientStock) || errors.Is(err, stockdomain.ErrProductNotFound) {
			return domain.Order{}, fmt.Errorf("%w: %w", stockdomain.ErrReservationConflict, err)
		}
		return domain.Order{}, err
	}

	s.log.Info("order created",
		slog.String("order_id", created.ID),
		slog.String("customer_id", created.CustomerID),
		slog.Int("items", created.ItemCount()),
		slog.String("amount_paid", created.AmountPaid.StringFixed(2)))
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, domain.ErrNotFound
	}
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidOrder)
	}
	return s.repo.ListOrders(ctx, customerID)
}

func (s *Service) MarkShipped(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, domain.StatusShipped)
}

func (s *Service) MarkDelivered(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, domain.StatusDelivered)
}

// Cancel returns the stock of every item whose product still exists.
func (s *Service) Cancel(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, domain.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, to domain.Status) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, domain.ErrNotFound
	}
	order, err := s.repo.UpdateStatusTx(ctx, id, to, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status changed",
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)))
	return order, nil
}
