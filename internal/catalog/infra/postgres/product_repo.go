package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/postgres/catalogdb"
	"github.com/google/uuid"
)

type ProductRepo struct {
	q *catalogdb.Queries
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{q: catalogdb.New(db)}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.NewProduct) (domain.Product, error) {
	row, err := r.q.CreateProduct(ctx, catalogdb.CreateProductParams{
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		AvailableQuantity: int32(p.AvailableQuantity),
		OnSale:            p.OnSale,
	})
	if err != nil {
		return domain.Product{}, err
	}

	return toDomain(row), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		// A malformed id can never match a row.
		return domain.Product{}, app.ErrNotFound
	}

	product, err := r.q.GetProduct(ctx, prodID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	return toDomain(product), nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur uuid.NullUUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = uuid.NullUUID{UUID: uid, Valid: true}
	}

	rows, err := r.q.ListProducts(ctx, catalogdb.ListProductsParams{
		Query:  strings.TrimSpace(query),
		Limit:  int32(limit),
		Cursor: cur,
	})
	if err != nil {
		return nil, "", err
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string

	for _, row := range rows {
		out = append(out, toDomain(row))
		nextCursor = row.ID.String()
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

func toDomain(row catalogdb.Product) domain.Product {
	return domain.Product{
		ID:                row.ID.String(),
		Name:              row.Name,
		Description:       row.Description,
		UnitPrice:         row.UnitPrice,
		AvailableQuantity: int(row.AvailableQuantity),
		OnSale:            row.OnSale,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
