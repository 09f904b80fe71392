package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/httpx"
	"github.com/dwikikusuma/storefront/internal/order/app"
	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/:id", h.GetOrder)
	rg.POST("/orders/:id/ship", h.transition(h.svc.MarkShipped))
	rg.POST("/orders/:id/deliver", h.transition(h.svc.MarkDelivered))
	rg.POST("/orders/:id/cancel", h.transition(h.svc.Cancel))
}

type ItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID               string                 `json:"id"`
	CustomerID       string                 `json:"customer_id"`
	Status           domain.Status          `json:"status"`
	PaymentMethod    domain.PaymentMethod   `json:"payment_method"`
	PaymentLabel     string                 `json:"payment_label"`
	DeliveryOptionID string                 `json:"delivery_option_id"`
	DeliveryName     string                 `json:"delivery_name"`
	DeliveryCost     string                 `json:"delivery_cost"`
	SubTotal         string                 `json:"sub_total"`
	AmountPaid       string                 `json:"amount_paid"`
	ItemCount        int                    `json:"item_count"`
	Shipping         domain.ShippingAddress `json:"shipping_address"`
	DateOrdered      time.Time              `json:"date_ordered"`
	DateShipped      *time.Time             `json:"date_shipped,omitempty"`
	Items            []ItemResponse         `json:"items"`
}

type listQuery struct {
	CustomerID string `form:"customer_id" binding:"required"`
}

func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(o))
}

func (h *Handler) ListOrders(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpx.BindError(c, err)
		return
	}

	orders, err := h.svc.ListOrders(c.Request.Context(), q.CustomerID)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) transition(fn func(ctx context.Context, id string) (domain.Order, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := fn(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, ToResponse(o))
	}
}

func ToResponse(o domain.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		Status:           o.Status,
		PaymentMethod:    o.PaymentMethod,
		PaymentLabel:     o.PaymentMethod.Label(),
		DeliveryOptionID: o.DeliveryOptionID,
		DeliveryName:     o.DeliveryName,
		DeliveryCost:     o.DeliveryCost.StringFixed(2),
		SubTotal:         o.SubTotal.StringFixed(2),
		AmountPaid:       o.AmountPaid.StringFixed(2),
		ItemCount:        o.ItemCount(),
		Shipping:         o.Shipping,
		DateOrdered:      o.DateOrdered,
		DateShipped:      o.DateShipped,
		Items:            items,
	}
}
