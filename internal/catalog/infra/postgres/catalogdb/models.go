package catalogdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID                uuid.UUID
	Name              string
	Description       string
	UnitPrice         decimal.Decimal
	AvailableQuantity int32
	OnSale            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
