package stockdb

import (
	"context"

	"github.com/google/uuid"
)

const getStockLevel = `-- name: GetStockLevel :one
SELECT id, available_quantity, on_sale
FROM products
WHERE id = $1
`

type GetStockLevelRow struct {
	ID                uuid.UUID
	AvailableQuantity int32
	OnSale            bool
}

func (q *Queries) GetStockLevel(ctx context.Context, id uuid.UUID) (GetStockLevelRow, error) {
	row := q.db.QueryRowContext(ctx, getStockLevel, id)
	var i GetStockLevelRow
	err := row.Scan(&i.ID, &i.AvailableQuantity, &i.OnSale)
	return i, err
}

const reserveStock = `-- name: ReserveStock :one
UPDATE products
SET available_quantity = available_quantity - $1, updated_at = NOW()
WHERE id = $2 AND available_quantity >= $1
RETURNING available_quantity
`

type ReserveStockParams struct {
	Quantity int32
	ID       uuid.UUID
}

func (q *Queries) ReserveStock(ctx context.Context, arg ReserveStockParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, reserveStock, arg.Quantity, arg.ID)
	var available_quantity int32
	err := row.Scan(&available_quantity)
	return available_quantity, err
}

const releaseStock = `-- name: ReleaseStock :one
UPDATE products
SET available_quantity = available_quantity + $1, updated_at = NOW()
WHERE id = $2
RETURNING available_quantity
`

type ReleaseStockParams struct {
	Quantity int32
	ID       uuid.UUID
}

func (q *Queries) ReleaseStock(ctx context.Context, arg ReleaseStockParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, releaseStock, arg.Quantity, arg.ID)
	var available_quantity int32
	err := row.Scan(&available_quantity)
	return available_quantity, err
}
