package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*StockRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStockRepo(db), mock
}

func TestReserveDecrements(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE products").
		WithArgs(int32(3), id).
		WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(2))

	left, err := repo.Reserve(context.Background(), id.String(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveReportsInsufficientStock(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE products").
		WithArgs(int32(3), id).
		WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}))
	mock.ExpectQuery("SELECT id, available_quantity, on_sale").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "available_quantity", "on_sale"}).AddRow(id.String(), 2, true))

	_, err := repo.Reserve(context.Background(), id.String(), 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 2, insufficient.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveReportsMissingProduct(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE products").
		WithArgs(int32(1), id).
		WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}))
	mock.ExpectQuery("SELECT id, available_quantity, on_sale").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "available_quantity", "on_sale"}))

	_, err := repo.Reserve(context.Background(), id.String(), 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.Level(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = repo.Release(context.Background(), "not-a-uuid", 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuantityBeyondColumnRangeIsRejected(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New().String()

	_, err := repo.Release(context.Background(), id, domain.MaxQuantity+1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = repo.Reserve(context.Background(), id, 1<<32-1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Nothing may reach the database with a truncated quantity.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseOverflowIsStockLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE products").
		WithArgs(int32(domain.MaxQuantity), id).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "integer out of range"})

	_, err := repo.Release(context.Background(), id.String(), domain.MaxQuantity)
	require.ErrorIs(t, err, domain.ErrStockLimitExceeded)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAsReservationConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}, conflict: true},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, conflict: true},
		{name: "wrapped deadlock", err: fmt.Errorf("item 1: %w", &pgconn.PgError{Code: "40P01"}), conflict: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "plain", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsReservationConflict(tt.err)
			assert.Equal(t, tt.conflict, errors.Is(got, domain.ErrReservationConflict))
			if !tt.conflict {
				assert.Same(t, tt.err, got)
			}
		})
	}
}
