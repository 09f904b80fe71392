package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	goredis "github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 10

var ErrUpdateContention = fmt.Errorf("%w after %d attempts", cartapp.ErrConcurrentUpdate, maxUpdateAttempts)

// SessionStore keeps each cart as a JSON document under <prefix>:<session id>.
// Every write pushes the expiry forward by ttl.
type SessionStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSessionStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.read(ctx, s.rdb, sessionID)
}

// Update uses WATCH/MULTI so concurrent requests on one session never lose a line.
func (s *SessionStore) Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (domain.Cart, error) {
	key := s.key(sessionID)
	var out domain.Cart

	txf := func(tx *goredis.Tx) error {
		cart, err := s.read(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(&cart); err != nil {
			return err
		}
		data, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			out = cart
		}
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Cart{}, err
		}
		return out, nil
	}
	return domain.Cart{}, ErrUpdateContention
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (s *SessionStore) read(ctx context.Context, c getter, sessionID string) (domain.Cart, error) {
	data, err := c.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	cart.SessionID = sessionID
	return cart, nil
}

func (s *SessionStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}
