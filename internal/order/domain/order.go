package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidOrder      = errors.New("invalid order")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCOD || p == PaymentBankTransfer
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCOD:
		return "Cash on Delivery"
	case PaymentBankTransfer:
		return "Bank Transfer"
	default:
		return string(p)
	}
}

type ShippingAddress struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1" binding:"required"`
	Address2 string `json:"address2"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country" binding:"required"`
}

type Order struct {
	ID                string
	CustomerID        string
	ShippingAddressID string
	Shipping          ShippingAddress
	DeliveryOptionID  string
	DeliveryName      string
	DeliveryCost      decimal.Decimal
	PaymentMethod     PaymentMethod
	SubTotal          decimal.Decimal
	AmountPaid        decimal.Decimal
	Status            Status
	DateOrdered       time.Time
	DateShipped       *time.Time
	UpdatedAt         time.Time
	Items             []OrderItem
}

// OrderItem freezes what was bought. ProductID is empty once the product
// has been deleted.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// CheckAmounts verifies every line total and that items plus delivery add up
// to the amount paid.
func (o Order) CheckAmounts() error {
	sum := decimal.Zero
	for i, it := range o.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidOrder, i, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d: unit price cannot be negative", ErrInvalidOrder, i)
		}
		expected := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if !it.LineTotal.Equal(expected) {
			return fmt.Errorf("%w: item %d: line total mismatch", ErrInvalidOrder, i)
		}
		sum = sum.Add(it.LineTotal)
	}
	if !sum.Equal(o.SubTotal) {
		return fmt.Errorf("%w: subtotal %s does not match items %s", ErrInvalidOrder, o.SubTotal, sum)
	}
	if !sum.Add(o.DeliveryCost).Equal(o.AmountPaid) {
		return fmt.Errorf("%w: amount paid %s does not match items plus delivery %s", ErrInvalidOrder, o.AmountPaid, sum.Add(o.DeliveryCost))
	}
	return nil
}

type CreateOrderRequest struct {
	CustomerID       string
	Shipping         ShippingAddress
	DeliveryOptionID string
	DeliveryName     string
	DeliveryCost     decimal.Decimal
	PaymentMethod    PaymentMethod
	// AmountPaid is what the customer was quoted; it must equal items plus delivery.
	AmountPaid decimal.Decimal
	Items      []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}
