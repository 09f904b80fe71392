package httpapi

import (
	"net/http"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/httpx"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Register expects httpx.Session to run before these routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.DELETE("/cart", h.ClearCart)
	rg.GET("/cart/validate", h.Validate)
	rg.POST("/cart/items", h.AddItem)
	rg.PUT("/cart/items/:productID", h.UpdateItem)
	rg.DELETE("/cart/items/:productID", h.RemoveItem)
}

type ItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	OnSale    bool   `json:"on_sale"`
	Available int    `json:"available"`
}

type CartResponse struct {
	SessionID  string          `json:"session_id"`
	Items      []ItemResponse  `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice string          `json:"total_price"`
	Notices    []domain.Notice `json:"notices,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=2147483647"`
}

type updateItemRequest struct {
	// Zero or less removes the line.
	Quantity *int `json:"quantity" binding:"required,max=2147483647"`
}

func (h *Handler) GetCart(c *gin.Context) {
	h.respond(c, http.StatusOK)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}
	if _, err := h.svc.Add(c.Request.Context(), httpx.SessionID(c), req.ProductID, req.Quantity); err != nil {
		httpx.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}
	if _, err := h.svc.Update(c.Request.Context(), httpx.SessionID(c), c.Param("productID"), *req.Quantity); err != nil {
		httpx.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	if _, err := h.svc.Remove(c.Request.Context(), httpx.SessionID(c), c.Param("productID")); err != nil {
		httpx.WriteError(c, err)
		return
	}
	h.respond(c, http.StatusOK)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), httpx.SessionID(c)); err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Validate(c *gin.Context) {
	violations, err := h.svc.ValidateAgainstStock(c.Request.Context(), httpx.SessionID(c))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	if violations == nil {
		violations = []domain.Violation{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(violations) == 0, "violations": violations})
}

// respond renders the cart as it stands against the live catalog.
func (h *Handler) respond(c *gin.Context, status int) {
	sid := httpx.SessionID(c)
	items, notices, err := h.svc.Materialize(c.Request.Context(), sid)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(status, toResponse(sid, items, notices))
}

func toResponse(sessionID string, items []domain.Item, notices []domain.Notice) CartResponse {
	out := CartResponse{
		SessionID: sessionID,
		Items:     make([]ItemResponse, 0, len(items)),
		Notices:   notices,
	}
	total := decimal.Zero
	for _, it := range items {
		out.Items = append(out.Items, ItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			LineTotal: it.LineTotal.StringFixed(2),
			OnSale:    it.OnSale,
			Available: it.Available,
		})
		out.TotalItems += it.Quantity
		total = total.Add(it.LineTotal)
	}
	out.TotalPrice = total.StringFixed(2)
	return out
}
