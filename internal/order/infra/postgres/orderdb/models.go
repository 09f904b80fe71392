package orderdb

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID                uuid.UUID
	CustomerID        string
	ShippingAddressID uuid.NullUUID
	DeliveryOptionID  uuid.NullUUID
	DeliveryName      string
	DeliveryCost      decimal.Decimal
	PaymentMethod     string
	SubtotalAmount    decimal.Decimal
	AmountPaid        decimal.Decimal
	Status            string
	DateOrdered       time.Time
	DateShipped       sql.NullTime
	UpdatedAt         time.Time
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.NullUUID
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Position  int32
}

type ShippingAddress struct {
	ID         uuid.UUID
	CustomerID string
	FullName   string
	Email      string
	Phone      string
	Address1   string
	Address2   string
	City       string
	State      string
	Zipcode    string
	Country    string
	CreatedAt  time.Time
}
