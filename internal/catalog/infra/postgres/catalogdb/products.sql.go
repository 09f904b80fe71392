package catalogdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name, description, unit_price, available_quantity, on_sale)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, unit_price, available_quantity, on_sale, created_at, updated_at
`

type CreateProductParams struct {
	Name              string
	Description       string
	UnitPrice         decimal.Decimal
	AvailableQuantity int32
	OnSale            bool
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.UnitPrice,
		arg.AvailableQuantity,
		arg.OnSale,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.UnitPrice,
		&i.AvailableQuantity,
		&i.OnSale,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getProduct = `-- name: GetProduct :one
SELECT id, name, description, unit_price, available_quantity, on_sale, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRowContext(ctx, getProduct, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.UnitPrice,
		&i.AvailableQuantity,
		&i.OnSale,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listProducts = `-- name: ListProducts :many
SELECT id, name, description, unit_price, available_quantity, on_sale, created_at, updated_at
FROM products
WHERE ($1::text = '' OR name ILIKE '%' || $1::text || '%')
  AND ($2::uuid IS NULL OR id > $2::uuid)
ORDER BY id
LIMIT $3
`

type ListProductsParams struct {
	Query  string
	Cursor uuid.NullUUID
	Limit  int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts, arg.Query, arg.Cursor, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.UnitPrice,
			&i.AvailableQuantity,
			&i.OnSale,
			&i.CreatedAt,
			&i.UpdatedAt,
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
