package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/dwikikusuma/storefront/internal/stock/infra/postgres/stockdb"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

type StockRepo struct {
	q *stockdb.Queries
}

func NewStockRepo(db *sql.DB) *StockRepo {
	return &StockRepo{q: stockdb.New(db)}
}

func (r *StockRepo) Level(ctx context.Context, productID string) (domain.Level, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return domain.Level{}, domain.ProductNotFound(productID)
	}

	row, err := r.q.GetStockLevel(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Level{}, domain.ProductNotFound(productID)
	}
	if err != nil {
		return domain.Level{}, err
	}

	return domain.Level{
		ProductID: row.ID.String(),
		Available: int(row.AvailableQuantity),
		OnSale:    row.OnSale,
	}, nil
}

func (r *StockRepo) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return 0, domain.ProductNotFound(productID)
	}
	return Reserve(ctx, r.q, id, quantity)
}

func (r *StockRepo) Release(ctx context.Context, productID string, quantity int) (int, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return 0, domain.ProductNotFound(productID)
	}
	return Release(ctx, r.q, id, quantity)
}

// Reserve decrements inside whatever transaction q is bound to. The guarded
// UPDATE locks the row, so concurrent reservations serialize on it and the
// CHECK constraint is never the thing that stops a negative quantity.
func Reserve(ctx context.Context, q *stockdb.Queries, id uuid.UUID, quantity int) (int, error) {
	if !domain.ValidQuantity(quantity) {
		return 0, domain.ErrInvalidQuantity
	}
	left, err := q.ReserveStock(ctx, stockdb.ReserveStockParams{
		Quantity: int32(quantity),
		ID:       id,
	})
	if err == nil {
		return int(left), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, AsReservationConflict(err)
	}

	// Nothing updated: either the row is gone or it holds too little.
	row, err := q.GetStockLevel(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ProductNotFound(id.String())
	}
	if err != nil {
		return 0, err
	}
	return 0, &domain.InsufficientStockError{
		ProductID: id.String(),
		Requested: quantity,
		Available: int(row.AvailableQuantity),
	}
}

func Release(ctx context.Context, q *stockdb.Queries, id uuid.UUID, quantity int) (int, error) {
	if !domain.ValidQuantity(quantity) {
		return 0, domain.ErrInvalidQuantity
	}
	left, err := q.ReleaseStock(ctx, stockdb.ReleaseStockParams{
		Quantity: int32(quantity),
		ID:       id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ProductNotFound(id.String())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeNumericOutOfRange {
		return 0, domain.ErrStockLimitExceeded
	}
	if err != nil {
		return 0, AsReservationConflict(err)
	}
	return int(left), nil
}

// AsReservationConflict turns a transaction Postgres aborted to break a lock
// cycle or a serialization conflict into ErrReservationConflict. Other errors
// pass through unchanged.
func AsReservationConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeDeadlockDetected, codeSerializationFailure:
		return fmt.Errorf("%w: %s", domain.ErrReservationConflict, pgErr.Message)
	}
	return err
}
