package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/cart/infra/postgres/cartdb"
)

const defaultTTL = 14 * 24 * time.Hour

// SessionStore keeps carts in Postgres. Update locks the cart row, so
// concurrent writers for one session are applied one after another.
type SessionStore struct {
	*cartdb.Queries
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *sql.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionStore{
		Queries: cartdb.New(db),
		db:      db,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionStore) execTX(ctx context.Context, fn func(q *cartdb.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(cartdb.New(tx))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	row, err := s.GetCart(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return s.read(ctx, s.Queries, row)
}

func (s *SessionStore) Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (domain.Cart, error) {
	var cart domain.Cart
	err := s.execTX(ctx, func(q *cartdb.Queries) error {
		now := s.now()
		if err := q.EnsureCart(ctx, cartdb.EnsureCartParams{SessionID: sessionID, ExpiresAt: now.Add(s.ttl)}); err != nil {
			return err
		}
		row, err := q.GetCartForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}

		cart, err = s.read(ctx, q, row)
		if err != nil {
			return err
		}
		if err := fn(&cart); err != nil {
			return err
		}

		if err := q.ClearCartItems(ctx, sessionID); err != nil {
			return err
		}
		for i, line := range cart.Lines {
			err := q.AddCartItem(ctx, cartdb.AddCartItemParams{
				SessionID: sessionID,
				ProductID: line.ProductID,
				Position:  int32(i),
				Quantity:  int32(line.Quantity),
				UnitPrice: line.UnitPrice,
				AddedAt:   line.AddedAt,
			})
			if err != nil {
				return fmt.Errorf("save line %s: %w", line.ProductID, err)
			}
		}
		return q.TouchCart(ctx, cartdb.TouchCartParams{
			SessionID: sessionID,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		})
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.DeleteCart(ctx, sessionID)
}

// read treats an expired cart as empty; its rows are replaced on the next Update.
func (s *SessionStore) read(ctx context.Context, q *cartdb.Queries, row cartdb.Cart) (domain.Cart, error) {
	cart := domain.Cart{SessionID: row.SessionID, UpdatedAt: row.UpdatedAt}
	if !row.ExpiresAt.After(s.now()) {
		return cart, nil
	}

	items, err := q.ListCartItems(ctx, row.SessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	for _, it := range items {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: it.ProductID,
			Quantity:  int(it.Quantity),
			UnitPrice: it.UnitPrice,
			AddedAt:   it.AddedAt,
		})
	}
	return cart, nil
}
