package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/google/uuid"
)

// ProductStore keeps the product table in memory. It serves both the catalog
// reads and the stock ledger, so all quantity changes go through one mutex.
type ProductStore struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]*domain.Product),
	}
}

func (s *ProductStore) Create(ctx context.Context, p domain.NewProduct) (domain.Product, error) {
	_ = ctx
	now := time.Now().UTC()
	product := &domain.Product{
		ID:                uuid.NewString(),
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		AvailableQuantity: p.AvailableQuantity,
		OnSale:            p.OnSale,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
	return *product, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return *p, nil
}

func (s *ProductStore) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	_ = ctx
	query = strings.ToLower(strings.TrimSpace(query))
	cursor = strings.TrimSpace(cursor)

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Product, 0, limit)
	for _, id := range ids {
		if cursor != "" && id <= cursor {
			continue
		}
		p := s.products[id]
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, *p)
		if len(out) == limit {
			break
		}
	}

	var next string
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

// Delete removes a product outright, leaving carts and orders with stale references.
func (s *ProductStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *ProductStore) SetOnSale(id string, onSale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.OnSale = onSale
		p.UpdatedAt = time.Now().UTC()
	}
}

func (s *ProductStore) Level(ctx context.Context, productID string) (stockdomain.Level, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return stockdomain.Level{}, stockdomain.ProductNotFound(productID)
	}
	return stockdomain.Level{ProductID: p.ID, Available: p.AvailableQuantity, OnSale: p.OnSale}, nil
}

func (s *ProductStore) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.reservable(productID, quantity)
	if err != nil {
		return 0, err
	}
	p.AvailableQuantity -= quantity
	p.UpdatedAt = time.Now().UTC()
	return p.AvailableQuantity, nil
}

func (s *ProductStore) Release(ctx context.Context, productID string, quantity int) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return 0, stockdomain.ProductNotFound(productID)
	}
	if quantity > stockdomain.MaxQuantity-p.AvailableQuantity {
		return 0, stockdomain.ErrStockLimitExceeded
	}
	p.AvailableQuantity += quantity
	p.UpdatedAt = time.Now().UTC()
	return p.AvailableQuantity, nil
}

// ReserveAll applies every reservation or none of them.
func (s *ProductStore) ReserveAll(ctx context.Context, items []stockdomain.Reservation) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	need := make(map[string]int, len(items))
	for _, it := range items {
		if !stockdomain.ValidQuantity(it.Quantity) {
			return stockdomain.ErrInvalidQuantity
		}
		need[it.ProductID] += it.Quantity
		if _, err := s.reservable(it.ProductID, need[it.ProductID]); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for _, it := range items {
		p := s.products[it.ProductID]
		p.AvailableQuantity -= it.Quantity
		p.UpdatedAt = now
	}
	return nil
}

// ReleaseAll restocks the given items, skipping products that no longer exist.
func (s *ProductStore) ReleaseAll(ctx context.Context, items []stockdomain.Reservation) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	add := make(map[string]int, len(items))
	for _, it := range items {
		p, ok := s.products[it.ProductID]
		if !ok {
			continue
		}
		add[it.ProductID] += it.Quantity
		if add[it.ProductID] > stockdomain.MaxQuantity-p.AvailableQuantity {
			return stockdomain.ErrStockLimitExceeded
		}
	}

	now := time.Now().UTC()
	for _, it := range items {
		if p, ok := s.products[it.ProductID]; ok {
			p.AvailableQuantity += it.Quantity
			p.UpdatedAt = now
		}
	}
	return nil
}

func (s *ProductStore) reservable(productID string, quantity int) (*domain.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, stockdomain.ProductNotFound(productID)
	}
	if quantity > p.AvailableQuantity {
		return nil, &stockdomain.InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: quantity,
			Available: p.AvailableQuantity,
		}
	}
	return p, nil
}
