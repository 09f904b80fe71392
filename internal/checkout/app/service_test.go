package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	cartadapter "github.com/dwikikusuma/storefront/internal/cart/infra/adapter"
	cartmem "github.com/dwikikusuma/storefront/internal/cart/infra/memory"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	catalogmem "github.com/dwikikusuma/storefront/internal/catalog/infra/memory"
	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	checkoutmem "github.com/dwikikusuma/storefront/internal/checkout/infra/memory"
	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	ordermem "github.com/dwikikusuma/storefront/internal/order/infra/memory"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type placed struct {
	mu     sync.Mutex
	orders []orderdomain.Order
}

func (p *placed) OrderPlaced(o orderdomain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
}

func (p *placed) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.orders)
}

type store struct {
	products *catalogmem.ProductStore
	delivery *checkoutmem.DeliveryStore
	cart     *cartapp.Service
	orders   *orderapp.Service
	checkout *app.Service
	notified *placed
}

func newStore() *store {
	log := logger.Discard()
	products := catalogmem.NewProductStore()
	catalog := catalogapp.NewService(products)
	cart := cartapp.NewService(cartmem.NewSessionStore(), cartadapter.NewCatalogProductReader(catalog), log)
	orders := orderapp.NewService(ordermem.NewOrderStore(products), log)
	delivery := checkoutmem.NewDeliveryStore()
	notified := &placed{}

	return &store{
		products: products,
		delivery: delivery,
		cart:     cart,
		orders:   orders,
		notified: notified,
		checkout: app.NewService(
			adapter.NewCartServiceReader(cart),
			adapter.NewCatalogServiceReader(catalog),
			delivery,
			orders,
			notified,
			4,
			log,
		),
	}
}

func (s *store) product(t *testing.T, name, price string, qty int) string {
	t.Helper()
	p, err := s.products.Create(context.Background(), catalogdomain.NewProduct{
		Name: name, UnitPrice: decimal.RequireFromString(price), AvailableQuantity: qty, OnSale: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p.ID
}

func (s *store) available(t *testing.T, id string) int {
	t.Helper()
	l, err := s.products.Level(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return l.Available
}

func placeRequest(sessionID string) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		SessionID: sessionID,
		Shipping: orderdomain.ShippingAddress{
			FullName: "Ada", Email: "ada@example.com", Address1: "1 Loop", City: "Jakarta", Country: "ID",
		},
		PaymentMethod: orderdomain.PaymentCOD,
	}
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mug := s.product(t, "Mug", "12.50", 10)
	tea := s.product(t, "Tea", "3.00", 10)
	gone := s.product(t, "Gone", "1.00", 10)

	s.cart.Add(ctx, "s1", mug, 2)
	s.cart.Add(ctx, "s1", tea, 1)
	s.cart.Add(ctx, "s1", gone, 1)
	s.products.Delete(gone)

	opts, err := s.checkout.DeliveryOptions(ctx)
	if err != nil || len(opts) != 2 {
		t.Fatalf("delivery options: %+v %v", opts, err)
	}
	var express domain.DeliveryOption
	for _, o := range opts {
		if o.Name == "Express" {
			express = o
		}
	}

	q, err := s.checkout.Quote(ctx, "s1", express.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Lines) != 2 || q.Lines[0].Name != "Mug" || q.Lines[1].Name != "Tea" {
		t.Fatalf("unexpected lines: %+v", q.Lines)
	}
	if len(q.Notices) != 1 || q.Notices[0].ProductID != gone {
		t.Fatalf("unexpected notices: %+v", q.Notices)
	}
	if !q.SubTotal.Equal(decimal.RequireFromString("28.00")) || !q.Total.Equal(decimal.RequireFromString("43.00")) {
		t.Fatalf("unexpected totals: %s %s", q.SubTotal, q.Total)
	}
	if q.ItemCount() != 3 {
		t.Fatalf("expected 3 items, got %d", q.ItemCount())
	}

	t.Run("unknown option falls back to first active", func(t *testing.T) {
		q, err := s.checkout.Quote(ctx, "s1", "nope")
		if err != nil {
			t.Fatal(err)
		}
		if q.Delivery.Name != "Standard" {
			t.Fatalf("expected Standard, got %s", q.Delivery.Name)
		}
	})

	t.Run("inactive option falls back", func(t *testing.T) {
		s.delivery.SetActive(express.ID, false)
		defer s.delivery.SetActive(express.ID, true)
		q, err := s.checkout.Quote(ctx, "s1", express.ID)
		if err != nil {
			t.Fatal(err)
		}
		if q.Delivery.Name != "Standard" {
			t.Fatalf("expected Standard, got %s", q.Delivery.Name)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		if _, err := s.checkout.Quote(ctx, "empty", ""); !errors.Is(err, domain.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}

func TestPlaceOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mug := s.product(t, "Mug", "12.50", 5)

	if _, err := s.cart.Add(ctx, "s1", mug, 2); err != nil {
		t.Fatal(err)
	}

	order, err := s.checkout.PlaceOrder(ctx, placeRequest("s1"))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.Status != orderdomain.StatusPending || order.CustomerID != "s1" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if !order.AmountPaid.Equal(decimal.RequireFromString("30.00")) || order.DeliveryName != "Standard" {
		t.Fatalf("unexpected amounts: %s via %s", order.AmountPaid, order.DeliveryName)
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Mug" || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if got := s.available(t, mug); got != 3 {
		t.Fatalf("expected 3 left, got %d", got)
	}
	if c, _ := s.cart.Get(ctx, "s1"); !c.IsEmpty() {
		t.Fatal("cart should be cleared after placement")
	}
	if s.notified.count() != 1 {
		t.Fatalf("expected one notification, got %d", s.notified.count())
	}
}

func TestPlaceOrderRejections(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mug := s.product(t, "Mug", "12.50", 5)

	t.Run("empty cart", func(t *testing.T) {
		if _, err := s.checkout.PlaceOrder(ctx, placeRequest("empty")); !errors.Is(err, domain.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("bad request", func(t *testing.T) {
		req := placeRequest("s1")
		req.PaymentMethod = "card"
		if _, err := s.checkout.PlaceOrder(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
		req = placeRequest("s1")
		req.Shipping.City = " "
		if _, err := s.checkout.PlaceOrder(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("stock moved since add", func(t *testing.T) {
		if _, err := s.cart.Add(ctx, "s2", mug, 4); err != nil {
			t.Fatal(err)
		}
		if _, err := s.products.Reserve(ctx, mug, 2); err != nil {
			t.Fatal(err)
		}

		_, err := s.checkout.PlaceOrder(ctx, placeRequest("s2"))
		var sv *domain.StockValidationError
		if !errors.As(err, &sv) || !errors.Is(err, domain.ErrStockValidationFailed) {
			t.Fatalf("expected StockValidationError, got %v", err)
		}
		if len(sv.Violations) != 1 || sv.Violations[0].Kind != cartdomain.ViolationInsufficientQuantity || sv.Violations[0].Available != 3 {
			t.Fatalf("unexpected violations: %+v", sv.Violations)
		}
		if got := s.available(t, mug); got != 3 {
			t.Fatalf("validation failure must not touch stock, got %d", got)
		}
		if c, _ := s.cart.Get(ctx, "s2"); c.Quantity(mug) != 4 {
			t.Fatal("cart must survive a failed placement")
		}
	})

	if s.notified.count() != 0 {
		t.Fatalf("no notification expected, got %d", s.notified.count())
	}
}

func TestConcurrentPlacementsOnLastUnit(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	last := s.product(t, "Last", "9.99", 1)

	const buyers = 8
	for i := 0; i < buyers; i++ {
		if _, err := s.cart.Add(ctx, sessionName(i), last, 1); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.checkout.PlaceOrder(ctx, placeRequest(sessionName(i)))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, stockdomain.ErrReservationConflict), errors.Is(err, domain.ErrStockValidationFailed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if got := s.available(t, last); got != 0 {
		t.Fatalf("expected 0 left, got %d", got)
	}
}

func TestPlacementIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	a := s.product(t, "A", "1.00", 5)
	b := s.product(t, "B", "1.00", 5)

	s.cart.Add(ctx, "s1", a, 2)
	s.cart.Add(ctx, "s1", b, 5)

	// validation passes, then another buyer takes B before the reservation
	orders := &raceWriter{inner: s.checkout.Orders, before: func() {
		s.products.Reserve(ctx, b, 1)
	}}
	s.checkout.Orders = orders

	_, err := s.checkout.PlaceOrder(ctx, placeRequest("s1"))
	if !errors.Is(err, stockdomain.ErrReservationConflict) {
		t.Fatalf("expected ErrReservationConflict, got %v", err)
	}
	if s.available(t, a) != 5 || s.available(t, b) != 4 {
		t.Fatalf("unexpected stock: a=%d b=%d", s.available(t, a), s.available(t, b))
	}
	if list, _ := s.orders.ListOrders(ctx, "s1"); len(list) != 0 {
		t.Fatalf("expected no orders, got %d", len(list))
	}
	if c, _ := s.cart.Get(ctx, "s1"); c.TotalItemCount() != 7 {
		t.Fatal("cart must survive a failed placement")
	}
}

type raceWriter struct {
	inner  app.OrderWriter
	before func()
}

func (w *raceWriter) CreateOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error) {
	w.before()
	return w.inner.CreateOrder(ctx, req)
}

func sessionName(i int) string {
	return "buyer-" + string(rune('a'+i))
}
