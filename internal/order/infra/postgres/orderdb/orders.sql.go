package orderdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createShippingAddress = `-- name: CreateShippingAddress :one
INSERT INTO shipping_addresses (customer_id, full_name, email, phone, address1, address2, city, state, zipcode, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, customer_id, full_name, email, phone, address1, address2, city, state, zipcode, country, created_at
`

type CreateShippingAddressParams struct {
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
}

func (q *Queries) CreateShippingAddress(ctx context.Context, arg CreateShippingAddressParams) (ShippingAddress, error) {
	row := q.db.QueryRowContext(ctx, createShippingAddress,
		arg.CustomerID,
		arg.FullName,
		arg.Email,
		arg.Phone,
		arg.Address1,
		arg.Address2,
		arg.City,
		arg.State,
		arg.Zipcode,
		arg.Country,
	)
	var i ShippingAddress
	err := scanShippingAddress(row, &i)
	return i, err
}

const getShippingAddress = `-- name: GetShippingAddress :one
SELECT id, customer_id, full_name, email, phone, address1, address2, city, state, zipcode, country, created_at
FROM shipping_addresses
WHERE id = $1
`

func (q *Queries) GetShippingAddress(ctx context.Context, id uuid.UUID) (ShippingAddress, error) {
	row := q.db.QueryRowContext(ctx, getShippingAddress, id)
	var i ShippingAddress
	err := scanShippingAddress(row, &i)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered, date_shipped, updated_at
`

type CreateOrderParams struct {
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
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, createOrder,
		arg.CustomerID,
		arg.ShippingAddressID,
		arg.DeliveryOptionID,
		arg.DeliveryName,
		arg.DeliveryCost,
		arg.PaymentMethod,
		arg.SubtotalAmount,
		arg.AmountPaid,
		arg.Status,
		arg.DateOrdered,
	)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const addOrderItem = `-- name: AddOrderItem :one
INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, line_total, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, product_id, name, quantity, unit_price, line_total, position
`

type AddOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID uuid.NullUUID
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Position  int32
}

func (q *Queries) AddOrderItem(ctx context.Context, arg AddOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRowContext(ctx, addOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.Name,
		arg.Quantity,
		arg.UnitPrice,
		arg.LineTotal,
		arg.Position,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.Name,
		&i.Quantity,
		&i.UnitPrice,
		&i.LineTotal,
		&i.Position,
	)
	return i, err
}

const getOrder = `-- name: GetOrder :one
SELECT id, customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered, date_shipped, updated_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRowContext(ctx, getOrder, id)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const getOrderForUpdate = `-- name: GetOrderForUpdate :one
SELECT id, customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered, date_shipped, updated_at
FROM orders
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRowContext(ctx, getOrderForUpdate, id)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const listOrdersByCustomer = `-- name: ListOrdersByCustomer :many
SELECT id, customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered, date_shipped, updated_at
FROM orders
WHERE customer_id = $1
ORDER BY date_ordered DESC
`

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := q.db.QueryContext(ctx, listOrdersByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var i Order
		if err := scanOrder(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderItems = `-- name: ListOrderItems :many
SELECT id, order_id, product_id, name, quantity, unit_price, line_total, position
FROM order_items
WHERE order_id = $1
ORDER BY position, id
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.QueryContext(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.Name,
			&i.Quantity,
			&i.UnitPrice,
			&i.LineTotal,
			&i.Position,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders
SET status = $2, date_shipped = COALESCE($3, date_shipped), updated_at = $4
WHERE id = $1
RETURNING id, customer_id, shipping_address_id, delivery_option_id, delivery_name, delivery_cost, payment_method, subtotal_amount, amount_paid, status, date_ordered, date_shipped, updated_at
`

type UpdateOrderStatusParams struct {
	ID          uuid.UUID
	Status      string
	DateShipped sql.NullTime
	UpdatedAt   time.Time
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, updateOrderStatus,
		arg.ID,
		arg.Status,
		arg.DateShipped,
		arg.UpdatedAt,
	)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner, i *Order) error {
	return row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.ShippingAddressID,
		&i.DeliveryOptionID,
		&i.DeliveryName,
		&i.DeliveryCost,
		&i.PaymentMethod,
		&i.SubtotalAmount,
		&i.AmountPaid,
		&i.Status,
		&i.DateOrdered,
		&i.DateShipped,
		&i.UpdatedAt,
	)
}

func scanShippingAddress(row scanner, i *ShippingAddress) error {
	return row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.FullName,
		&i.Email,
		&i.Phone,
		&i.Address1,
		&i.Address2,
		&i.City,
		&i.State,
		&i.Zipcode,
		&i.Country,
		&i.CreatedAt,
	)
}
