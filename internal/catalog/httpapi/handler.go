package httpapi

import (
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/httpx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
}

type ProductResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	UnitPrice         string    `json:"unit_price"`
	AvailableQuantity int       `json:"available_quantity"`
	OnSale            bool      `json:"on_sale"`
	InStock           bool      `json:"in_stock"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type listQuery struct {
	Query  string `form:"q"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Cursor string `form:"cursor"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpx.BindError(c, err)
		return
	}

	products, next, err := h.svc.ListProducts(c.Request.Context(), q.Query, q.Limit, q.Cursor)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "next_cursor": next})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

func toResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice.StringFixed(2),
		AvailableQuantity: p.AvailableQuantity,
		OnSale:            p.OnSale,
		InStock:           p.InStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
