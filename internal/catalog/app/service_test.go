package app

import (
	"context"
	"math"
	"testing"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	lastLimit int
}

func (fakeRepo) Create(ctx context.Context, p domain.NewProduct) (domain.Product, error) {
	return domain.Product{ID: "p1", Name: p.Name, UnitPrice: p.UnitPrice}, nil
}
func (fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, nil
}
func (f *fakeRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	f.lastLimit = limit
	return nil, "", nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	price := decimal.RequireFromString("9.99")

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: "   ", UnitPrice: price})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: "Keyboard", UnitPrice: decimal.NewFromInt(-1)})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative quantity -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: "Keyboard", UnitPrice: price, AvailableQuantity: -1})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("quantity beyond stock limit -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: "Keyboard", UnitPrice: price, AvailableQuantity: math.MaxInt32 + 1})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("free product is allowed", func(t *testing.T) {
		p, err := svc.CreateProduct(context.Background(), domain.NewProduct{Name: " Sticker ", UnitPrice: decimal.Zero})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Sticker" {
			t.Fatalf("expected trimmed name, got %q", p.Name)
		}
	})
}

func TestListProductsClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	cases := map[int]int{0: 20, -5: 20, 7: 7, 500: 100}
	for in, want := range cases {
		if _, _, err := svc.ListProducts(context.Background(), "", in, ""); err != nil {
			t.Fatalf("list: %v", err)
		}
		if repo.lastLimit != want {
			t.Fatalf("limit %d -> %d, want %d", in, repo.lastLimit, want)
		}
	}
}

func TestGetProductBlankID(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.GetProduct(context.Background(), " "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
