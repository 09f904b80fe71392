package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/order/infra/postgres/orderdb"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	stockpg "github.com/dwikikusuma/storefront/internal/stock/infra/postgres"
	"github.com/dwikikusuma/storefront/internal/stock/infra/postgres/stockdb"
	"github.com/google/uuid"
)

type OrderRepo struct {
	*orderdb.Queries
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{
		Queries: orderdb.New(db),
		db:      db,
	}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(q *orderdb.Queries, stock *stockdb.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(orderdb.New(tx), stockdb.New(tx))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// CreateOrderTx writes the address, the order, and one item per line, taking
// the stock for each line as it goes. Any failure rolls all of it back.
//
// Stock rows are locked in product id order so two placements sharing
// products cannot wait on each other. Items keep the cart's order.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	productIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		pUUID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("item %d: %w", i, stockdomain.ProductNotFound(item.ProductID))
		}
		productIDs[i] = pUUID
	}

	lockOrder := make([]int, len(order.Items))
	for i := range lockOrder {
		lockOrder[i] = i
	}
	sort.SliceStable(lockOrder, func(a, b int) bool {
		return productIDs[lockOrder[a]].String() < productIDs[lockOrder[b]].String()
	})

	var created domain.Order

	err := r.execTX(ctx, func(q *orderdb.Queries, stock *stockdb.Queries) error {
		addr, err := q.CreateShippingAddress(ctx, orderdb.CreateShippingAddressParams{
			CustomerID: order.CustomerID,
			FullName:   order.Shipping.FullName,
			Email:      order.Shipping.Email,
			Phone:      order.Shipping.Phone,
			Address1:   order.Shipping.Address1,
			Address2:   order.Shipping.Address2,
			City:       order.Shipping.City,
			State:      order.Shipping.State,
			Zipcode:    order.Shipping.Zipcode,
			Country:    order.Shipping.Country,
		})
		if err != nil {
			return fmt.Errorf("failed to create shipping address: %w", err)
		}

		o, err := q.CreateOrder(ctx, orderdb.CreateOrderParams{
			CustomerID:        order.CustomerID,
			ShippingAddressID: uuid.NullUUID{UUID: addr.ID, Valid: true},
			DeliveryOptionID:  nullUUID(order.DeliveryOptionID),
			DeliveryName:      order.DeliveryName,
			DeliveryCost:      order.DeliveryCost,
			PaymentMethod:     string(order.PaymentMethod),
			SubtotalAmount:    order.SubTotal,
			AmountPaid:        order.AmountPaid,
			Status:            string(order.Status),
			DateOrdered:       order.DateOrdered,
		})
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, i := range lockOrder {
			item := order.Items[i]
			if _, err := stockpg.Reserve(ctx, stock, productIDs[i], item.Quantity); err != nil {
				var insufficient *stockdomain.InsufficientStockError
				if errors.As(err, &insufficient) {
					insufficient.Name = item.Name
				}
				return fmt.Errorf("item %d: %w", i, err)
			}
		}

		items := make([]domain.OrderItem, 0, len(order.Items))
		for i, item := range order.Items {
			row, err := q.AddOrderItem(ctx, orderdb.AddOrderItemParams{
				OrderID:   o.ID,
				ProductID: uuid.NullUUID{UUID: productIDs[i], Valid: true},
				Name:      item.Name,
				Quantity:  int32(item.Quantity),
				UnitPrice: item.UnitPrice,
				LineTotal: item.LineTotal,
				Position:  int32(i),
			})
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
			items = append(items, itemToDomain(row))
		}

		created = toDomain(o, addr, items)
		return nil
	})
	if err != nil {
		return domain.Order{}, stockpg.AsReservationConflict(err)
	}
	return created, nil
}

// UpdateStatusTx locks the order row, so two concurrent cancels cannot both
// release stock.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, id string, to domain.Status, at time.Time) (domain.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, domain.ErrNotFound
	}

	var updated domain.Order
	err = r.execTX(ctx, func(q *orderdb.Queries, stock *stockdb.Queries) error {
		current, err := q.GetOrderForUpdate(ctx, oid)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		from := domain.Status(current.Status)
		if !from.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
		}

		rows, err := q.ListOrderItems(ctx, oid)
		if err != nil {
			return err
		}

		if to == domain.StatusCancelled {
			for _, it := range rows {
				if !it.ProductID.Valid {
					continue
				}
				_, err := stockpg.Release(ctx, stock, it.ProductID.UUID, int(it.Quantity))
				if errors.Is(err, stockdomain.ErrProductNotFound) {
					continue
				}
				if err != nil {
					return fmt.Errorf("release stock for %s: %w", it.ProductID.UUID, err)
				}
			}
		}

		var shipped sql.NullTime
		if to == domain.StatusShipped {
			shipped = sql.NullTime{Time: at, Valid: true}
		}
		o, err := q.UpdateOrderStatus(ctx, orderdb.UpdateOrderStatusParams{
			ID:          oid,
			Status:      string(to),
			DateShipped: shipped,
			UpdatedAt:   at,
		})
		if err != nil {
			return err
		}

		addr, err := r.address(ctx, q, o)
		if err != nil {
			return err
		}
		updated = toDomain(o, addr, itemsToDomain(rows))
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, domain.ErrNotFound
	}

	o, err := r.Queries.GetOrder(ctx, oid)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return r.load(ctx, o)
}

func (r *OrderRepo) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(rows))
	for _, o := range rows {
		order, err := r.load(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, nil
}

func (r *OrderRepo) load(ctx context.Context, o orderdb.Order) (domain.Order, error) {
	rows, err := r.ListOrderItems(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	addr, err := r.address(ctx, r.Queries, o)
	if err != nil {
		return domain.Order{}, err
	}
	return toDomain(o, addr, itemsToDomain(rows)), nil
}

func (r *OrderRepo) address(ctx context.Context, q *orderdb.Queries, o orderdb.Order) (orderdb.ShippingAddress, error) {
	if !o.ShippingAddressID.Valid {
		return orderdb.ShippingAddress{}, nil
	}
	addr, err := q.GetShippingAddress(ctx, o.ShippingAddressID.UUID)
	if errors.Is(err, sql.ErrNoRows) {
		return orderdb.ShippingAddress{}, nil
	}
	return addr, err
}

func nullUUID(s string) uuid.NullUUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

func toDomain(o orderdb.Order, addr orderdb.ShippingAddress, items []domain.OrderItem) domain.Order {
	order := domain.Order{
		ID:            o.ID.String(),
		CustomerID:    o.CustomerID,
		DeliveryName:  o.DeliveryName,
		DeliveryCost:  o.DeliveryCost,
		PaymentMethod: domain.PaymentMethod(o.PaymentMethod),
		SubTotal:      o.SubtotalAmount,
		AmountPaid:    o.AmountPaid,
		Status:        domain.Status(o.Status),
		DateOrdered:   o.DateOrdered,
		UpdatedAt:     o.UpdatedAt,
		Items:         items,
	}
	if o.ShippingAddressID.Valid {
		order.ShippingAddressID = o.ShippingAddressID.UUID.String()
	}
	if o.DeliveryOptionID.Valid {
		order.DeliveryOptionID = o.DeliveryOptionID.UUID.String()
	}
	if o.DateShipped.Valid {
		shipped := o.DateShipped.Time
		order.DateShipped = &shipped
	}
	if addr.ID != uuid.Nil {
		order.Shipping = domain.ShippingAddress{
			ID:       addr.ID.String(),
			FullName: addr.FullName,
			Email:    addr.Email,
			Phone:    addr.Phone,
			Address1: addr.Address1,
			Address2: addr.Address2,
			City:     addr.City,
			State:    addr.State,
			Zipcode:  addr.Zipcode,
			Country:  addr.Country,
		}
	}
	return order
}

func itemToDomain(row orderdb.OrderItem) domain.OrderItem {
	item := domain.OrderItem{
		ID:        row.ID.String(),
		OrderID:   row.OrderID.String(),
		Name:      row.Name,
		Quantity:  int(row.Quantity),
		UnitPrice: row.UnitPrice,
		LineTotal: row.LineTotal,
	}
	if row.ProductID.Valid {
		item.ProductID = row.ProductID.UUID.String()
	}
	return item
}

func itemsToDomain(rows []orderdb.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, itemToDomain(row))
	}
	return out
}
