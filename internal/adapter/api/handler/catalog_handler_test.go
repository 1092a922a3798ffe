package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemart/internal/adapter/repository"
	"phonemart/internal/infrastructure/docstore"
	"phonemart/internal/usecase"
	"phonemart/pkg/response"
)

func newCatalogTestHandler(t *testing.T) (*CatalogHandler, *docstore.Memory) {
	t.Helper()

	store := docstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.InsertAt(ctx, "PhoneDB", "p1", map[string]interface{}{
		"name":  "iPhone 15",
		"price": "25,990,000 ₫",
	}))
	require.NoError(t, store.InsertAt(ctx, "PhoneDB", "p2", map[string]interface{}{
		"name":  "Galaxy S24",
		"price": "22,490,000 ₫",
	}))

	productRepo := repository.NewDocstoreProductRepository(store)
	return NewCatalogHandler(usecase.NewCatalogUseCase(productRepo, 60*time.Second)), store
}

func doRequest(t *testing.T, handler echo.HandlerFunc, req *http.Request, pathParams map[string]string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for name, value := range pathParams {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}

	require.NoError(t, handler(c))

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestListProductsReturnsCatalog(t *testing.T) {
	h, _ := newCatalogTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec, body := doRequest(t, h.ListProducts, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	products, ok := body.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, products, 2)
}

func TestListProductsServesCachedListWithoutStore(t *testing.T) {
	h, store := newCatalogTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec, _ := doRequest(t, h.ListProducts, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// With the cache warm, a store outage must not surface.
	store.Hook = func(op, collection string) error {
		return assert.AnError
	}

	rec, body := doRequest(t, h.ListProducts, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestGetProductByID(t *testing.T) {
	h, _ := newCatalogTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/p1", nil)
	rec, body := doRequest(t, h.GetProduct, req, map[string]string{"id": "p1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, body.Success)

	product, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "iPhone 15", product["name"])
	assert.Equal(t, 25990000.0, product["price_value"])
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newCatalogTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/missing", nil)
	rec, body := doRequest(t, h.GetProduct, req, map[string]string{"id": "missing"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestInvalidateDropsCache(t *testing.T) {
	h, store := newCatalogTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec, _ := doRequest(t, h.ListProducts, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	invalidateReq := httptest.NewRequest(http.MethodPost, "/v1/products/invalidate", nil)
	rec, body := doRequest(t, h.Invalidate, invalidateReq, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	// The next list has to go back to the store; with the store down it
	// now fails instead of serving the dropped cache.
	store.Hook = func(op, collection string) error {
		return assert.AnError
	}

	rec, body = doRequest(t, h.ListProducts, req, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
}
