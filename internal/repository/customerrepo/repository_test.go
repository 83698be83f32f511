package customerrepo_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/repository/customerrepo"
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

// Com o cliente no cache, o banco nem é consultado (DB nil).
func TestFindByID_CacheHit(t *testing.T) {
	mockCache := new(MockCache)
	repo := customerrepo.NewCustomerRepository(nil, mockCache, time.Second, time.Minute, logger.NewLogger("debug"))

	cached := domain.Customer{ID: "c-1", CompanyID: "co-1", Name: "Ana"}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	mockCache.On("Get", mock.Anything, "customer:co-1:c-1").Return(string(data), nil)

	customer, err := repo.FindByID(context.Background(), "co-1", "c-1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)
	mockCache.AssertExpectations(t)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
