package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine holds the price seen when the line was first added; later adds
// and updates change only the quantity.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	AddedAt   time.Time       `json:"added_at"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is owned by a single session. Lines keep insertion order, which is
// also the order stock is reserved in at checkout.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) Line(productID string) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

func (c *Cart) Quantity(productID string) int {
	l, _ := c.Line(productID)
	return l.Quantity
}

// Put sets the quantity of an existing line, or appends a new line priced at unitPrice.
func (c *Cart) Put(productID string, quantity int, unitPrice decimal.Decimal, now time.Time) {
	if i := c.index(productID); i >= 0 {
		c.Lines[i].Quantity = quantity
	} else {
		c.Lines = append(c.Lines, CartLine{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			AddedAt:   now,
		})
	}
	c.UpdatedAt = now
}

func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

type ViolationKind string

const (
	ViolationOutOfStock           ViolationKind = "out_of_stock"
	ViolationInsufficientQuantity ViolationKind = "insufficient_quantity"
	ViolationProductMissing       ViolationKind = "product_missing"
)

// Violation is one reason a cart cannot be checked out as it stands.
type Violation struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name,omitempty"`
	Kind      ViolationKind `json:"kind"`
	Requested int           `json:"requested"`
	Available int           `json:"available"`
	Message   string        `json:"message"`
}

// Item is a cart line resolved against the live product.
type Item struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	OnSale    bool
	Available int
}

type Notice struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}
