package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	carthttp "github.com/dwikikusuma/storefront/internal/cart/httpapi"
	cataloghttp "github.com/dwikikusuma/storefront/internal/catalog/httpapi"
	checkouthttp "github.com/dwikikusuma/storefront/internal/checkout/httpapi"
	"github.com/dwikikusuma/storefront/internal/httpx"
	orderhttp "github.com/dwikikusuma/storefront/internal/order/httpapi"
	stockhttp "github.com/dwikikusuma/storefront/internal/stock/httpapi"
	"github.com/dwikikusuma/storefront/pkg/middleware"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	catalog  *cataloghttp.Handler
	stock    *stockhttp.Handler
	cart     *carthttp.Handler
	checkout *checkouthttp.Handler
	orders   *orderhttp.Handler
}

type readyCheck func(ctx context.Context) error

type routerOptions struct {
	sessionTTL    time.Duration
	secureCookies bool
	ready         []readyCheck
}

func newRouter(log *slog.Logger, h handlers, opts routerOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, check := range opts.ready {
			if err := check(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	h.catalog.Register(api)
	h.stock.Register(api)
	h.orders.Register(api)

	session := api.Group("", httpx.Session(opts.sessionTTL, opts.secureCookies))
	h.cart.Register(session)
	h.checkout.Register(session)

	return r
}
