package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/google/uuid"
)

// Stock is satisfied by the in-memory product store.
type Stock interface {
	ReserveAll(ctx context.Context, items []stockdomain.Reservation) error
	ReleaseAll(ctx context.Context, items []stockdomain.Reservation) error
}

type OrderStore struct {
	mu     sync.Mutex
	stock  Stock
	orders map[string]domain.Order
}

func NewOrderStore(stock Stock) *OrderStore {
	return &OrderStore{
		stock:  stock,
		orders: make(map[string]domain.Order),
	}
}

func (s *OrderStore) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stock.ReserveAll(ctx, reservations(order.Items)); err != nil {
		return domain.Order{}, fmt.Errorf("reserve stock: %w", err)
	}

	order.ID = uuid.NewString()
	order.ShippingAddressID = uuid.NewString()
	order.Shipping.ID = order.ShippingAddressID
	order.UpdatedAt = order.DateOrdered
	order.Items = slices.Clone(order.Items)
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
	}

	s.orders[order.ID] = order
	return clone(order), nil
}

func (s *OrderStore) UpdateStatusTx(ctx context.Context, id string, to domain.Status, at time.Time) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if !order.Status.CanTransition(to) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, to)
	}

	if to == domain.StatusCancelled {
		if err := s.stock.ReleaseAll(ctx, reservations(order.Items)); err != nil {
			return domain.Order{}, fmt.Errorf("release stock: %w", err)
		}
	}
	if to == domain.StatusShipped {
		shipped := at
		order.DateShipped = &shipped
	}
	order.Status = to
	order.UpdatedAt = at

	s.orders[id] = order
	return clone(order), nil
}

func (s *OrderStore) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return clone(order), nil
}

func (s *OrderStore) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateOrdered.After(out[j].DateOrdered)
	})
	return out, nil
}

func reservations(items []domain.OrderItem) []stockdomain.Reservation {
	out := make([]stockdomain.Reservation, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		out = append(out, stockdomain.Reservation{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func clone(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	if o.DateShipped != nil {
		shipped := *o.DateShipped
		o.DateShipped = &shipped
	}
	return o
}
