package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/middleware"
	"gooficina/internal/pkg/token"
)

// MockCache é uma implementação mock da interface cache.Client
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string, expiration time.Duration) (int, error) {
	args := m.Called(ctx, key, expiration)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokenSvc := token.NewService("segredo", time.Hour)
	tokenString, err := tokenSvc.GenerateToken("user-1", "company-1", "operator")
	require.NoError(t, err)

	var got middleware.UserClaims
	handler := middleware.NewAuthMiddleware(tokenSvc)(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.GetUserClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "company-1", got.CompanyID)
	assert.Equal(t, domain.RoleOperator, got.Role)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokenSvc := token.NewService("segredo", time.Hour)
	handler := middleware.NewAuthMiddleware(tokenSvc)(okHandler)

	for name, header := range map[string]string{
		"sem header":     "",
		"sem Bearer":     "Token abc",
		"token inválido": "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Category)
		})
	}
}

func TestPermissionMiddleware(t *testing.T) {
	handler := middleware.PermissionMiddleware(domain.RoleAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodDelete, "/v1/products/1", nil)
	req = req.WithContext(middleware.WithUserClaims(req.Context(), middleware.UserClaims{UserID: "u", Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/products/1", nil)
	req = req.WithContext(middleware.WithUserClaims(req.Context(), middleware.UserClaims{UserID: "u", Role: domain.RoleOperator}))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Category)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodDelete, "/v1/products/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	mockCache := new(MockCache)
	limiter := middleware.RateLimiter(mockCache, 2, time.Minute, logger.NewNopLogger())(http.HandlerFunc(okHandler))

	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1", time.Minute).Return(1, nil).Once()
	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1", time.Minute).Return(3, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	limiter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	limiter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Category)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	mockCache.AssertExpectations(t)
}

func TestRateLimiter_CacheFailureLetsRequestThrough(t *testing.T) {
	mockCache := new(MockCache)
	limiter := middleware.RateLimiter(mockCache, 2, time.Minute, logger.NewNopLogger())(http.HandlerFunc(okHandler))
	mockCache.On("Incr", mock.Anything, mock.Anything, time.Minute).Return(0, errors.New("redis fora do ar"))

	rec := httptest.NewRecorder()
	limiter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
