package notify

import (
	"context"
	"errors"
	"time"

	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/shopspring/decimal"
)

var ErrDeliveryFailed = errors.New("notification delivery failed")

type Notifier interface {
	Notify(ctx context.Context, s OrderSummary) error
}

type SummaryItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderSummary is what leaves the system about an order. It never carries
// the full shipping address.
type OrderSummary struct {
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Items         []SummaryItem   `json:"items"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	DeliveryName  string          `json:"delivery_name"`
	PaymentMethod string          `json:"payment_method"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	PlacedAt      time.Time       `json:"placed_at"`
}

func (s OrderSummary) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func Summarize(o orderdomain.Order) OrderSummary {
	items := make([]SummaryItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SummaryItem{Name: it.Name, Quantity: it.Quantity})
	}
	return OrderSummary{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		AmountPaid:    o.AmountPaid,
		Items:         items,
		CustomerName:  o.Shipping.FullName,
		CustomerEmail: o.Shipping.Email,
		CustomerPhone: o.Shipping.Phone,
		DeliveryName:  o.DeliveryName,
		PaymentMethod: o.PaymentMethod.Label(),
		City:          o.Shipping.City,
		Country:       o.Shipping.Country,
		PlacedAt:      o.DateOrdered,
	}
}

// Fanout sends to every notifier and reports all failures together.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, s OrderSummary) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
