package httpx

import (
	"context"
	"errors"
	"net/http"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	stockdomain "github.com/dwikikusuma/storefront/internal/stock/domain"
	"github.com/dwikikusuma/storefront/pkg/middleware"
	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUnavailable     = "UNAVAILABLE"
	CodeInternal        = "INTERNAL"
)

var (
	badRequest = []error{
		catalogapp.ErrInvalidInput,
		stockdomain.ErrInvalidQuantity,
		cartapp.ErrInvalidSession,
		checkoutdomain.ErrInvalidRequest,
		orderdomain.ErrInvalidOrder,
	}
	notFound = []error{
		catalogapp.ErrNotFound,
		stockdomain.ErrProductNotFound,
		cartapp.ErrLineNotFound,
		orderdomain.ErrNotFound,
		checkoutdomain.ErrEmptyCart,
		checkoutdomain.ErrNoDeliveryOption,
	}
	conflict = []error{
		stockdomain.ErrNotPurchasable,
		stockdomain.ErrInsufficientStock,
		stockdomain.ErrReservationConflict,
		checkoutdomain.ErrStockValidationFailed,
		orderdomain.ErrInvalidTransition,
		cartapp.ErrConcurrentUpdate,
	}
)

// StatusFromError maps a domain error to an HTTP status, a stable code and a
// message that is safe to show. Unknown errors never leak their text.
func StatusFromError(err error) (int, string, string) {
	switch {
	case isAny(err, conflict):
		return http.StatusConflict, CodeConflict, err.Error()
	case isAny(err, badRequest):
		return http.StatusBadRequest, CodeInvalidArgument, err.Error()
	case isAny(err, notFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, CodeUnavailable, "request timed out"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}

func WriteError(c *gin.Context, err error) {
	status, code, msg := StatusFromError(err)
	_ = c.Error(err)

	body := gin.H{
		"error":      msg,
		"code":       code,
		"request_id": c.GetString(middleware.RequestIDKey),
	}

	var insufficient *stockdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		body["product_id"] = insufficient.ProductID
		body["requested"] = insufficient.Requested
		body["available"] = insufficient.Available
	}
	var invalid *checkoutdomain.StockValidationError
	if errors.As(err, &invalid) {
		body["violations"] = invalid.Violations
	}

	c.AbortWithStatusJSON(status, body)
}

// BindError reports a request body or query that failed binding.
func BindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":      "invalid request",
		"code":       CodeInvalidArgument,
		"details":    err.Error(),
		"request_id": c.GetString(middleware.RequestIDKey),
	})
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
