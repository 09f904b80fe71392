package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultOptions mirrors the rows seeded by the Postgres schema.
func DefaultOptions() []domain.DeliveryOption {
	return []domain.DeliveryOption{
		{
			ID:            uuid.NewString(),
			Name:          "Standard",
			Description:   "Standard delivery within 5 days",
			Price:         decimal.RequireFromString("5.00"),
			EstimatedDays: 5,
			Active:        true,
		},
		{
			ID:            uuid.NewString(),
			Name:          "Express",
			Description:   "Express delivery within 2 days",
			Price:         decimal.RequireFromString("15.00"),
			EstimatedDays: 2,
			Active:        true,
		},
	}
}

type DeliveryStore struct {
	mu      sync.RWMutex
	options []domain.DeliveryOption
}

func NewDeliveryStore(options ...domain.DeliveryOption) *DeliveryStore {
	if len(options) == 0 {
		options = DefaultOptions()
	}
	return &DeliveryStore{options: options}
}

func (s *DeliveryStore) ListActive(ctx context.Context) ([]domain.DeliveryOption, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DeliveryOption, 0, len(s.options))
	for _, o := range s.options {
		if o.Active {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *DeliveryStore) Get(ctx context.Context, id string) (domain.DeliveryOption, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.options {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.DeliveryOption{}, domain.ErrNoDeliveryOption
}

func (s *DeliveryStore) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.options {
		if s.options[i].ID == id {
			s.options[i].Active = active
		}
	}
}
