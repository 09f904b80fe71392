package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                string
	Name              string
	Description       string
	UnitPrice         decimal.Decimal
	AvailableQuantity int
	OnSale            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p Product) InStock() bool {
	return p.OnSale && p.AvailableQuantity > 0
}

type NewProduct struct {
	Name              string
	Description       string
	UnitPrice         decimal.Decimal
	AvailableQuantity int
	OnSale            bool
}
