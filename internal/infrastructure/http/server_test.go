package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/localstore"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	telem, err := telemetry.NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "storefront-test", Environment: "test"}, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := telem.TracerProvider.Tracer("test")
	kv := memory.NewKVStore(tracer, logger)
	store := localstore.NewStore(kv, "adg", tracer, logger)
	svc := service.NewStoreService(service.Repositories{
		Products: store, Users: store, Cart: store, Sessions: store,
	}, tracer, telem.MeterProvider.Meter("test"), logger)

	srv := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: "0"}, Handlers{
		Products: handler.NewProductHandler(svc, logger),
		Cart:     handler.NewCartHandler(svc, logger),
		Auth:     handler.NewAuthHandler(svc, logger),
	}, svc, telem)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ListProductsByCategory(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/products?category=Quesos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, products, 2)
	assert.Equal(t, "q1", products[0].ID)
	assert.Equal(t, "q2", products[1].ID)
}

func TestServer_ListProductsByCategorySlug(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/products?category=frutos-secos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, products, 3)
	for _, p := range products {
		assert.Equal(t, "Frutos secos", p.Category)
	}
}

func TestServer_ListProductsRejectsUnknownSort(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/products?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_FeaturedAndGetProduct(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/products/featured", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 5)

	resp = do(t, ts, http.MethodGet, "/products/o2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Miel multiflora", decode[dto.ProductResponse](t, resp).Name)

	resp = do(t, ts, http.MethodGet, "/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CartFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/cart/items", dto.AddToCartRequest{ProductID: "h1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	added := decode[dto.AddToCartResponse](t, resp)
	assert.True(t, added.Added)
	assert.Equal(t, int64(6990), added.Cart.Total)

	resp = do(t, ts, http.MethodPost, "/cart/items", dto.AddToCartRequest{ProductID: "h1"})
	assert.Equal(t, int64(13980), decode[dto.AddToCartResponse](t, resp).Cart.Total)

	resp = do(t, ts, http.MethodPost, "/cart/items", dto.AddToCartRequest{ProductID: "f2"})
	outOfStock := decode[dto.AddToCartResponse](t, resp)
	assert.False(t, outOfStock.Added)
	assert.Equal(t, int64(13980), outOfStock.Cart.Total)

	resp = do(t, ts, http.MethodPut, "/cart/items/h1", dto.UpdateCartItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	details := decode[dto.CartDetails](t, resp)
	require.Len(t, details.Items, 1)
	assert.Equal(t, 1, details.Items[0].Quantity)

	resp = do(t, ts, http.MethodDelete, "/cart/items/h1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.CartDetails](t, resp).Items)

	resp = do(t, ts, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_AddItemRequiresProductID(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/cart/items", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_AuthFlow(t *testing.T) {
	ts := newTestServer(t)
	register := dto.RegisterRequest{Name: "Ana", Surname: "Rojas", Email: "ana@example.com", Password: "secret"}

	resp := do(t, ts, http.MethodPost, "/auth/register", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, decode[dto.AuthResult](t, resp).OK)

	resp = do(t, ts, http.MethodPost, "/auth/register", register)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	dup := decode[dto.AuthResult](t, resp)
	assert.False(t, dup.OK)
	assert.Equal(t, dto.OutcomeEmailTaken, dup.Outcome)
	assert.Equal(t, dto.MsgEmailTaken, dup.Message)

	resp = do(t, ts, http.MethodPost, "/auth/register", dto.RegisterRequest{Email: "solo@example.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, dto.OutcomeInvalidRegistration, decode[dto.AuthResult](t, resp).Outcome)

	resp = do(t, ts, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(body)), "password")

	resp = do(t, ts, http.MethodGet, "/auth/session", nil)
	session := decode[map[string]map[string]string](t, resp)
	assert.Equal(t, "ana@example.com", session["user"]["email"])

	resp = do(t, ts, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/auth/session", nil)
	assert.Nil(t, decode[map[string]any](t, resp)["user"])
}

func TestServer_AdminRequiresAdminSession(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/admin/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	do(t, ts, http.MethodPost, "/auth/register", dto.RegisterRequest{Name: "Ana", Surname: "Rojas", Email: "ana@example.com", Password: "secret"})
	do(t, ts, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "secret"})

	resp = do(t, ts, http.MethodGet, "/admin/products", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_AdminSessionIsSharedAcrossClients(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "admin@almadegranja.cl", Password: "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	other := &http.Client{}
	resp, err := other.Get(ts.URL + "/admin/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	do(t, ts, http.MethodPost, "/auth/logout", nil)

	resp, err = other.Get(ts.URL + "/admin/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_AdminProductCRUD(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "admin@almadegranja.cl", Password: "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/admin/products", dto.UpsertProductRequest{
		Name: "Aceite de oliva", Category: "Otros", Price: 9990, Stock: 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	require.NotEmpty(t, created.ID)

	resp = do(t, ts, http.MethodPut, "/admin/products/"+created.ID, dto.UpsertProductRequest{
		Name: "Aceite de oliva extra virgen", Category: "Otros", Price: 10990, Stock: 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[dto.ProductResponse](t, resp).ID)

	resp = do(t, ts, http.MethodPost, "/admin/products", dto.UpsertProductRequest{Name: "", Price: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ts, http.MethodDelete, "/admin/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 9)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	do(t, ts, http.MethodGet, "/products", nil)

	resp := do(t, ts, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_operations")
}
