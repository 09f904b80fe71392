package checkoutdb

import (
	"context"

	"github.com/google/uuid"
)

const listActiveDeliveryOptions = `-- name: ListActiveDeliveryOptions :many
SELECT id, name, description, price, estimated_days, is_active
FROM delivery_options
WHERE is_active
ORDER BY price, name
`

func (q *Queries) ListActiveDeliveryOptions(ctx context.Context) ([]DeliveryOption, error) {
	rows, err := q.db.QueryContext(ctx, listActiveDeliveryOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeliveryOption
	for rows.Next() {
		var i DeliveryOption
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.EstimatedDays,
			&i.IsActive,
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

const getDeliveryOption = `-- name: GetDeliveryOption :one
SELECT id, name, description, price, estimated_days, is_active
FROM delivery_options
WHERE id = $1
`

func (q *Queries) GetDeliveryOption(ctx context.Context, id uuid.UUID) (DeliveryOption, error) {
	row := q.db.QueryRowContext(ctx, getDeliveryOption, id)
	var i DeliveryOption
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.EstimatedDays,
		&i.IsActive,
	)
	return i, err
}
