package cartdb

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const ensureCart = `-- name: EnsureCart :exec
INSERT INTO carts (session_id, expires_at)
VALUES ($1, $2)
ON CONFLICT (session_id) DO NOTHING
`

type EnsureCartParams struct {
	SessionID string
	ExpiresAt time.Time
}

func (q *Queries) EnsureCart(ctx context.Context, arg EnsureCartParams) error {
	_, err := q.db.ExecContext(ctx, ensureCart, arg.SessionID, arg.ExpiresAt)
	return err
}

const getCart = `-- name: GetCart :one
SELECT session_id, updated_at, expires_at
FROM carts
WHERE session_id = $1
`

func (q *Queries) GetCart(ctx context.Context, sessionID string) (Cart, error) {
	row := q.db.QueryRowContext(ctx, getCart, sessionID)
	var i Cart
	err := row.Scan(&i.SessionID, &i.UpdatedAt, &i.ExpiresAt)
	return i, err
}

const getCartForUpdate = `-- name: GetCartForUpdate :one
SELECT session_id, updated_at, expires_at
FROM carts
WHERE session_id = $1
FOR UPDATE
`

func (q *Queries) GetCartForUpdate(ctx context.Context, sessionID string) (Cart, error) {
	row := q.db.QueryRowContext(ctx, getCartForUpdate, sessionID)
	var i Cart
	err := row.Scan(&i.SessionID, &i.UpdatedAt, &i.ExpiresAt)
	return i, err
}

const listCartItems = `-- name: ListCartItems :many
SELECT session_id, product_id, position, quantity, unit_price, added_at
FROM cart_items
WHERE session_id = $1
ORDER BY position
`

func (q *Queries) ListCartItems(ctx context.Context, sessionID string) ([]CartItem, error) {
	rows, err := q.db.QueryContext(ctx, listCartItems, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartItem
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.SessionID,
			&i.ProductID,
			&i.Position,
			&i.Quantity,
			&i.UnitPrice,
			&i.AddedAt,
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

const clearCartItems = `-- name: ClearCartItems :exec
DELETE FROM cart_items
WHERE session_id = $1
`

func (q *Queries) ClearCartItems(ctx context.Context, sessionID string) error {
	_, err := q.db.ExecContext(ctx, clearCartItems, sessionID)
	return err
}

const addCartItem = `-- name: AddCartItem :exec
INSERT INTO cart_items (session_id, product_id, position, quantity, unit_price, added_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type AddCartItemParams struct {
	SessionID string
	ProductID string
	Position  int32
	Quantity  int32
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}

func (q *Queries) AddCartItem(ctx context.Context, arg AddCartItemParams) error {
	_, err := q.db.ExecContext(ctx, addCartItem,
		arg.SessionID,
		arg.ProductID,
		arg.Position,
		arg.Quantity,
		arg.UnitPrice,
		arg.AddedAt,
	)
	return err
}

const touchCart = `-- name: TouchCart :exec
UPDATE carts
SET updated_at = $2, expires_at = $3
WHERE session_id = $1
`

type TouchCartParams struct {
	SessionID string
	UpdatedAt time.Time
	ExpiresAt time.Time
}

func (q *Queries) TouchCart(ctx context.Context, arg TouchCartParams) error {
	_, err := q.db.ExecContext(ctx, touchCart, arg.SessionID, arg.UpdatedAt, arg.ExpiresAt)
	return err
}

const deleteCart = `-- name: DeleteCart :exec
DELETE FROM carts
WHERE session_id = $1
`

func (q *Queries) DeleteCart(ctx context.Context, sessionID string) error {
	_, err := q.db.ExecContext(ctx, deleteCart, sessionID)
	return err
}
