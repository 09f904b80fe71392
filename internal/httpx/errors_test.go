package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/dwikikusuma/storefront/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input -> 400", catalogapp.ErrInvalidInput, http.StatusBadRequest, CodeInvalidArgument},
		{"invalid quantity -> 400", fmt.Errorf("add: %w", stockdomain.ErrInvalidQuantity), http.StatusBadRequest, CodeInvalidArgument},
		{"invalid order -> 400", orderdomain.ErrInvalidOrder, http.StatusBadRequest, CodeInvalidArgument},
		{"missing session -> 400", cartapp.ErrInvalidSession, http.StatusBadRequest, CodeInvalidArgument},
		{"product missing -> 404", stockdomain.ProductNotFound("p1"), http.StatusNotFound, CodeNotFound},
		{"line missing -> 404", cartapp.ErrLineNotFound, http.StatusNotFound, CodeNotFound},
		{"order missing -> 404", orderdomain.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"empty cart -> 404", checkoutdomain.ErrEmptyCart, http.StatusNotFound, CodeNotFound},
		{"not purchasable -> 409", stockdomain.ErrNotPurchasable, http.StatusConflict, CodeConflict},
		{"insufficient -> 409", &stockdomain.InsufficientStockError{ProductID: "p1", Name: "Mug", Requested: 3, Available: 1}, http.StatusConflict, CodeConflict},
		{"reservation conflict -> 409", fmt.Errorf("%w: %w", stockdomain.ErrReservationConflict, stockdomain.ProductNotFound("p1")), http.StatusConflict, CodeConflict},
		{"validation -> 409", &checkoutdomain.StockValidationError{}, http.StatusConflict, CodeConflict},
		{"transition -> 409", orderdomain.ErrInvalidTransition, http.StatusConflict, CodeConflict},
		{"contended cart -> 409", cartapp.ErrConcurrentUpdate, http.StatusConflict, CodeConflict},
		{"deadline -> 503", context.DeadlineExceeded, http.StatusServiceUnavailable, CodeUnavailable},
		{"unknown -> 500", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, gotCode, _ := StatusFromError(tc.err)
			if gotStatus != tc.status || gotCode != tc.code {
				t.Fatalf("got (%d,%s)", gotStatus, gotCode)
			}
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	_, _, msg := StatusFromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal error", msg)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { WriteError(c, err) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestWriteErrorInsufficientStockDetails(t *testing.T) {
	w, body := serveError(t, &stockdomain.InsufficientStockError{ProductID: "p1", Name: "Mug", Requested: 6, Available: 5})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, body["code"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "p1", body["product_id"])
	assert.EqualValues(t, 6, body["requested"])
	assert.EqualValues(t, 5, body["available"])
	assert.Contains(t, body["error"], "only 5 Mug available in stock")
}

func TestWriteErrorListsViolations(t *testing.T) {
	w, body := serveError(t, &checkoutdomain.StockValidationError{Violations: []cartdomain.Violation{
		{ProductID: "p1", Kind: cartdomain.ViolationOutOfStock, Message: "Mug is out of stock"},
	}})

	assert.Equal(t, http.StatusConflict, w.Code)
	violations, ok := body["violations"].([]any)
	require.True(t, ok)
	require.Len(t, violations, 1)
	assert.Equal(t, "out_of_stock", violations[0].(map[string]any)["kind"])
}
