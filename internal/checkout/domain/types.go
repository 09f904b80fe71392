package domain

import (
	"errors"
	"fmt"
	"strings"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrStockValidationFailed = errors.New("cart failed stock validation")
	ErrNoDeliveryOption      = errors.New("no active delivery option")
	ErrInvalidRequest        = errors.New("invalid checkout request")
)

type DeliveryOption struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays int             `json:"estimated_days"`
	Active        bool            `json:"is_active"`
}

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Quote struct {
	Lines    []QuoteLine
	SubTotal decimal.Decimal
	Delivery DeliveryOption
	Total    decimal.Decimal
	// Notices lists cart lines left out because their product is gone.
	Notices []cartdomain.Notice
}

func (q Quote) ItemCount() int {
	n := 0
	for _, l := range q.Lines {
		n += l.Quantity
	}
	return n
}

// StockValidationError lists every line that blocks checkout.
type StockValidationError struct {
	Violations []cartdomain.Violation
}

func (e *StockValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("%s: %s", ErrStockValidationFailed, strings.Join(msgs, "; "))
}

func (e *StockValidationError) Unwrap() error { return ErrStockValidationFailed }

type PlaceOrderRequest struct {
	SessionID string
	// CustomerID defaults to the session id for guest checkouts.
	CustomerID       string
	Shipping         orderdomain.ShippingAddress
	DeliveryOptionID string
	PaymentMethod    orderdomain.PaymentMethod
}

func (r PlaceOrderRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, r.PaymentMethod)
	}
	required := map[string]string{
		"full_name": r.Shipping.FullName,
		"email":     r.Shipping.Email,
		"address1":  r.Shipping.Address1,
		"city":      r.Shipping.City,
		"country":   r.Shipping.Country,
	}
	for _, field := range []string{"full_name", "email", "address1", "city", "country"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("%w: shipping %s is required", ErrInvalidRequest, field)
		}
	}
	return nil
}
