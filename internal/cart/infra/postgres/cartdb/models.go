package cartdb

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	SessionID string
	UpdatedAt time.Time
	ExpiresAt time.Time
}

type CartItem struct {
	SessionID string
	ProductID string
	Position  int32
	Quantity  int32
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}
