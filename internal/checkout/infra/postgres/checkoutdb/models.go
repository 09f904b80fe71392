package checkoutdb

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeliveryOption struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	EstimatedDays int32
	IsActive      bool
}
