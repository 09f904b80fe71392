package domain

import (
	"errors"
	"fmt"
	"math"
)

// MaxQuantity bounds every quantity the ledger accepts and every stock level
// it stores. It matches the products.available_quantity column type.
const MaxQuantity = math.MaxInt32

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrNotPurchasable      = errors.New("product is not available for sale")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)
	ErrReservationConflict = errors.New("item became unavailable during checkout")

	ErrStockLimitExceeded = fmt.Errorf("%w: stock level would exceed %d", ErrInvalidQuantity, MaxQuantity)
)

// Level is the ledger's view of a product row.
type Level struct {
	ProductID string
	Available int
	OnSale    bool
}

// ValidQuantity reports whether quantity is a positive amount the ledger can store.
func ValidQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= MaxQuantity
}

func (l Level) Covers(quantity int) bool {
	return l.OnSale && l.Available >= quantity
}

type Reservation struct {
	ProductID string
	Quantity  int
}

// InsufficientStockError carries the numbers a user needs to fix the request.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	label := e.ProductID
	if e.Name != "" {
		label = e.Name
	}
	return fmt.Sprintf("only %d %s available in stock, requested %d", e.Available, label, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func ProductNotFound(productID string) error {
	return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
}
