package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"techproducts/internal/api/product"
	"techproducts/internal/api/router"
	"techproducts/internal/domain"
	"techproducts/internal/pkg/cache"
	"techproducts/internal/pkg/logger"
)

// fakeCache simula um cache sempre vazio: toda requisição é a primeira da janela.
type fakeCache struct{}

func (fakeCache) Get(ctx context.Context, key string) (string, error) { return "", cache.ErrCacheMiss }
func (fakeCache) GetInt(ctx context.Context, key string) (int, error) { return 0, cache.ErrCacheMiss }
func (fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (fakeCache) Incr(ctx context.Context, key string) error   { return nil }
func (fakeCache) Delete(ctx context.Context, key string) error { return nil }

// MockProductService cobre o contrato domain.ProductService para o roteador.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (domain.Product, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

// MockTokenVerifier cobre o contrato domain.TokenVerifier para o roteador.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (domain.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Principal), args.Error(1)
}

func newTestRouter(svc *MockProductService, verifier *MockTokenVerifier) http.Handler {
	handler := product.NewHandler(svc, logger.NewLogger("error"))
	return router.NewRouter(handler, verifier, fakeCache{}, 100, time.Minute)
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthCheck(t *testing.T) {
	handler := newTestRouter(new(MockProductService), new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_RootBanner(t *testing.T) {
	handler := newTestRouter(new(MockProductService), new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body domain.MessageResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Products Microservice", body.Message)
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	handler := newTestRouter(new(MockProductService), new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/nao-existe")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListProductsIsPublic(t *testing.T) {
	svc := new(MockProductService)
	svc.On("ListAllProducts", mock.Anything).
		Return([]domain.Product{{ID: 1, Name: "Burger", Price: 25.90, Category: domain.CategoryLanche}}, nil)
	handler := newTestRouter(svc, new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/products")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestRouter_CreateRequiresAuth(t *testing.T) {
	svc := new(MockProductService)
	handler := newTestRouter(svc, new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodPost, "/products")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "CreateProduct")
}

func TestRouter_MutationsRequireAuth(t *testing.T) {
	svc := new(MockProductService)
	handler := newTestRouter(svc, new(MockTokenVerifier))

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, handler, http.MethodPut, "/products/1").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, handler, http.MethodDelete, "/products/1").Code)
	svc.AssertNotCalled(t, "UpdateProduct")
	svc.AssertNotCalled(t, "DeleteProduct")
}

func TestRouter_TrailingSlashListsAll(t *testing.T) {
	svc := new(MockProductService)
	svc.On("ListAllProducts", mock.Anything).
		Return([]domain.Product{{ID: 1, Name: "Burger", Price: 25.90, Category: domain.CategoryLanche}}, nil)
	handler := newTestRouter(svc, new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/products/")

	// Barra final não é uma categoria vazia: equivale à listagem completa.
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertNotCalled(t, "ListProductsByCategory")
	svc.AssertExpectations(t)
}

func TestRouter_BatchRouteIsNotCategory(t *testing.T) {
	svc := new(MockProductService)
	svc.On("GetProductsByIDs", mock.Anything, []string{"1"}).
		Return([]domain.Product{{ID: 1, Name: "Burger", Price: 25.90, Category: domain.CategoryLanche}}, nil)
	handler := newTestRouter(svc, new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/products/batch?ids=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertNotCalled(t, "ListProductsByCategory")
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	handler := newTestRouter(new(MockProductService), new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodPatch, "/products")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_SetsRequestIDAndRateLimitHeaders(t *testing.T) {
	handler := newTestRouter(new(MockProductService), new(MockTokenVerifier))

	rec := doRequest(t, handler, http.MethodGet, "/health")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
}
