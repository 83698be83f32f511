package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooficina/internal/api/catalog"
	"gooficina/internal/api/customer"
	"gooficina/internal/api/order"
	"gooficina/internal/api/report"
	"gooficina/internal/api/router"
	"gooficina/internal/api/user"
	"gooficina/internal/api/vehicle"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/token"
	"gooficina/internal/service/catalogservice"
	"gooficina/internal/service/orderservice"
)

const companyID = "6f1c2a3b-9d4e-4f5a-8b6c-7d8e9f0a1b2c"

type fixture struct {
	handler  http.Handler
	tokenSvc *token.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logger.NewLogger("debug")
	catalogSvc := catalogservice.NewService(catalogservice.DefaultProducts(), catalogservice.DefaultServiceTypes(), log)
	ledger := orderservice.NewLedger(catalogSvc, log)
	tokenSvc := token.NewService("segredo-de-teste", time.Hour)

	// Clientes, veículos e usuários dependem do banco; os testes daqui não chegam nos serviços deles.
	handlers := router.Handlers{
		User:     user.NewHandler(nil, log),
		Catalog:  catalog.NewHandler(catalogSvc, log),
		Order:    order.NewHandler(ledger, log),
		Report:   report.NewHandler(ledger, log),
		Customer: customer.NewHandler(nil, log),
		Vehicle:  vehicle.NewHandler(nil, log),
	}
	return fixture{
		handler:  router.NewRouter(handlers, tokenSvc, nil, router.RateLimit{Limit: 10, Window: time.Minute}, log),
		tokenSvc: tokenSvc,
	}
}

func (f fixture) bearer(t *testing.T, role domain.UserRole) string {
	t.Helper()
	tok, err := f.tokenSvc.GenerateToken("user-1", companyID, string(role))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (f fixture) do(method, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Ping(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/ping", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/v1/orders", "/v1/products", "/v1/reports/summary", "/v1/customers", "/v1/vehicles"} {
		rec := f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_OperatorCanRunOrders(t *testing.T) {
	f := newFixture(t)
	auth := f.bearer(t, domain.RoleOperator)

	rec := f.do(http.MethodPost, "/v1/orders", `{"plate":"ABC1D23","customer_name":"Ana"}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodGet, "/v1/reports/summary", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.SalesSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 1, summary.OpenOrders)
}

func TestRouter_CatalogMutationsRequireAdmin(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Retrovisor","category":"Acessórios","unit_price":"65","stock":4,"min_stock":1}`

	rec := f.do(http.MethodPost, "/v1/products", body, f.bearer(t, domain.RoleOperator))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/v1/products", body, f.bearer(t, domain.RoleAdmin))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodDelete, "/v1/customers/"+companyID, "", f.bearer(t, domain.RoleOperator))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_StaticSegmentsWinOverProductID(t *testing.T) {
	f := newFixture(t)
	auth := f.bearer(t, domain.RoleOperator)

	rec := f.do(http.MethodGet, "/v1/products/low-stock", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var low []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&low))
	assert.Empty(t, low)

	rec = f.do(http.MethodGet, "/v1/products/lookup/7891234567890", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote domain.ProductQuote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, "1", quote.ProductID)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/v1/orders", "", f.bearer(t, domain.RoleOperator))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
