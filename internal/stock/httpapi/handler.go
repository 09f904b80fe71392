package httpapi

import (
	"net/http"

	"github.com/dwikikusuma/storefront/internal/httpx"
	"github.com/dwikikusuma/storefront/internal/stock/app"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	ledger *app.Ledger
}

func NewHandler(ledger *app.Ledger) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stock/:productID", h.GetLevel)
	rg.POST("/stock/:productID/restock", h.Restock)
}

type LevelResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	OnSale    bool   `json:"on_sale"`
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=2147483647"`
}

func (h *Handler) GetLevel(c *gin.Context) {
	level, err := h.ledger.Level(c.Request.Context(), c.Param("productID"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, LevelResponse{ProductID: level.ProductID, Available: level.Available, OnSale: level.OnSale})
}

func (h *Handler) Restock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	id := c.Param("productID")
	if err := h.ledger.ReleaseStock(c.Request.Context(), id, req.Quantity); err != nil {
		httpx.WriteError(c, err)
		return
	}
	h.GetLevel(c)
}
