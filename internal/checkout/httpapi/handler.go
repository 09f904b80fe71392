package httpapi

import (
	"net/http"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/httpx"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	orderhttp "github.com/dwikikusuma/storefront/internal/order/httpapi"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Register expects httpx.Session to run before these routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/checkout/delivery-options", h.DeliveryOptions)
	rg.GET("/checkout/quote", h.Quote)
	rg.POST("/checkout/orders", h.PlaceOrder)
}

type DeliveryOptionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	EstimatedDays int    `json:"estimated_days"`
}

type QuoteLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type QuoteResponse struct {
	Lines     []QuoteLineResponse    `json:"lines"`
	ItemCount int                    `json:"item_count"`
	SubTotal  string                 `json:"sub_total"`
	Delivery  DeliveryOptionResponse `json:"delivery"`
	Total     string                 `json:"total"`
	Notices   []cartdomain.Notice    `json:"notices,omitempty"`
}

type placeOrderRequest struct {
	CustomerID       string                      `json:"customer_id"`
	Shipping         orderdomain.ShippingAddress `json:"shipping_address"`
	DeliveryOptionID string                      `json:"delivery_option_id"`
	PaymentMethod    orderdomain.PaymentMethod   `json:"payment_method" binding:"required,oneof=cod bank_transfer"`
}

func (h *Handler) DeliveryOptions(c *gin.Context) {
	opts, err := h.svc.DeliveryOptions(c.Request.Context())
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	out := make([]DeliveryOptionResponse, 0, len(opts))
	for _, o := range opts {
		out = append(out, toDelivery(o))
	}
	c.JSON(http.StatusOK, gin.H{"delivery_options": out})
}

func (h *Handler) Quote(c *gin.Context) {
	q, err := h.svc.Quote(c.Request.Context(), httpx.SessionID(c), c.Query("delivery_option_id"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	lines := make([]QuoteLineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, QuoteLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Lines:     lines,
		ItemCount: q.ItemCount(),
		SubTotal:  q.SubTotal.StringFixed(2),
		Delivery:  toDelivery(q.Delivery),
		Total:     q.Total.StringFixed(2),
		Notices:   q.Notices,
	})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	order, err := h.svc.PlaceOrder(c.Request.Context(), domain.PlaceOrderRequest{
		SessionID:        httpx.SessionID(c),
		CustomerID:       req.CustomerID,
		Shipping:         req.Shipping,
		DeliveryOptionID: req.DeliveryOptionID,
		PaymentMethod:    req.PaymentMethod,
	})
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttp.ToResponse(order))
}

func toDelivery(o domain.DeliveryOption) DeliveryOptionResponse {
	return DeliveryOptionResponse{
		ID:            o.ID,
		Name:          o.Name,
		Description:   o.Description,
		Price:         o.Price.StringFixed(2),
		EstimatedDays: o.EstimatedDays,
	}
}
