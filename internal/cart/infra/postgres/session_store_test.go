package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cartColumns = []string{"session_id", "updated_at", "expires_at"}
	itemColumns = []string{"session_id", "product_id", "position", "quantity", "unit_price", "added_at"}
)

func newStore(t *testing.T) (*SessionStore, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSessionStore(db, time.Hour)
	s.now = func() time.Time { return now }
	return s, mock, now
}

func TestLoadMissingCartIsEmpty(t *testing.T) {
	s, mock, _ := newStore(t)
	mock.ExpectQuery("FROM carts").WithArgs("s1").WillReturnError(sql.ErrNoRows)

	cart, err := s.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", cart.SessionID)
	assert.True(t, cart.IsEmpty())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadKeepsLineOrder(t *testing.T) {
	s, mock, now := newStore(t)
	mock.ExpectQuery("FROM carts").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cartColumns).AddRow("s1", now, now.Add(time.Hour)))
	mock.ExpectQuery("FROM cart_items").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("s1", "b", 0, 2, "3.50", now).
			AddRow("s1", "a", 1, 1, "10.00", now))

	cart, err := s.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "b", cart.Lines[0].ProductID)
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("17")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadExpiredCartIsEmpty(t *testing.T) {
	s, mock, now := newStore(t)
	mock.ExpectQuery("FROM carts").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cartColumns).AddRow("s1", now.Add(-2*time.Hour), now.Add(-time.Hour)))

	cart, err := s.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRewritesLinesUnderLock(t *testing.T) {
	s, mock, now := newStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO carts").WithArgs("s1", now.Add(time.Hour)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FOR UPDATE").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cartColumns).AddRow("s1", now, now.Add(time.Hour)))
	mock.ExpectQuery("FROM cart_items").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow("s1", "a", 0, 1, "10.00", now))
	mock.ExpectExec("DELETE FROM cart_items").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_items").WithArgs("s1", "a", 0, 3, sqlmock.AnyArg(), now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE carts").WithArgs("s1", now, now.Add(time.Hour)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cart, err := s.Update(context.Background(), "s1", func(c *domain.Cart) error {
		c.Put("a", 3, decimal.NewFromInt(99), now)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s, mock, now := newStore(t)
	boom := errors.New("rejected")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO carts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FOR UPDATE").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cartColumns).AddRow("s1", now, now.Add(time.Hour)))
	mock.ExpectQuery("FROM cart_items").WithArgs("s1").WillReturnRows(sqlmock.NewRows(itemColumns))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "s1", func(*domain.Cart) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock, _ := newStore(t)
	mock.ExpectExec("DELETE FROM carts").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "s1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
