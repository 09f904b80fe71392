package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/postgres/checkoutdb"
	"github.com/google/uuid"
)

type DeliveryRepo struct {
	q *checkoutdb.Queries
}

func NewDeliveryRepo(db *sql.DB) *DeliveryRepo {
	return &DeliveryRepo{q: checkoutdb.New(db)}
}

func (r *DeliveryRepo) ListActive(ctx context.Context) ([]domain.DeliveryOption, error) {
	rows, err := r.q.ListActiveDeliveryOptions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DeliveryOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *DeliveryRepo) Get(ctx context.Context, id string) (domain.DeliveryOption, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.DeliveryOption{}, domain.ErrNoDeliveryOption
	}

	row, err := r.q.GetDeliveryOption(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeliveryOption{}, domain.ErrNoDeliveryOption
	}
	if err != nil {
		return domain.DeliveryOption{}, err
	}
	return toDomain(row), nil
}

func toDomain(row checkoutdb.DeliveryOption) domain.DeliveryOption {
	return domain.DeliveryOption{
		ID:            row.ID.String(),
		Name:          row.Name,
		Description:   row.Description,
		Price:         row.Price,
		EstimatedDays: int(row.EstimatedDays),
		Active:        row.IsActive,
	}
}
