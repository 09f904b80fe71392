package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/memory"
	"github.com/dwikikusuma/storefront/internal/stock/app"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelAndRestock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewProductStore()
	p, err := store.Create(context.Background(), catalogdomain.NewProduct{
		Name: "Mug", UnitPrice: decimal.NewFromInt(10), AvailableQuantity: 2, OnSale: true,
	})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(app.NewLedger(store, logger.Discard())).Register(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/"+p.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var level LevelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &level))
	assert.Equal(t, 2, level.Available)
	assert.True(t, level.OnSale)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/"+p.ID+"/restock", strings.NewReader(`{"quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &level))
	assert.Equal(t, 5, level.Available)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stock/"+p.ID+"/restock", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	restock := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stock/"+p.ID+"/restock", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, restock(`{"quantity":4294967295}`).Code)
	assert.Equal(t, http.StatusBadRequest, restock(`{"quantity":9223372036854775807}`).Code)

	w = restock(`{"quantity":2147483642}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &level))
	assert.Equal(t, 2147483647, level.Available)

	// Already at the ceiling: one more would overflow.
	assert.Equal(t, http.StatusBadRequest, restock(`{"quantity":1}`).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/"+p.ID, nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &level))
	assert.Equal(t, 2147483647, level.Available)
}
