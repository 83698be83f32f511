package customerservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/service/customerservice"
)

// MockCustomerRepository é uma implementação mock da interface domain.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, companyID, id string) (domain.Customer, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Customer), args.Int(1), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

const companyID = "9b2f6a3e-3c55-4d6c-9a51-2a1f0e7f1c11"

func TestCreateCustomer_Success(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Name == "Ana Souza" && c.CompanyID == companyID && c.Phone == "11999999999"
	})).Return(domain.Customer{ID: uuid.NewString(), Name: "Ana Souza", CompanyID: companyID}, nil)

	customer, err := svc.CreateCustomer(context.Background(), companyID, domain.CustomerInput{Name: "  Ana Souza ", Phone: " 11999999999 "})

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", customer.Name)
	repo.AssertExpectations(t)
}

func TestCreateCustomer_Validation(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))

	_, err := svc.CreateCustomer(context.Background(), companyID, domain.CustomerInput{Name: "  "})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.CreateCustomer(context.Background(), companyID, domain.CustomerInput{Name: "Ana", Email: "sem-arroba"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetCustomer_InvalidID(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))

	_, err := svc.GetCustomer(context.Background(), companyID, "123")

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestListCustomers_Pagination(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))

	expectedFilter := domain.ListFilter{CompanyID: companyID, Search: "ana", Page: 2}
	repo.On("List", mock.Anything, expectedFilter).Return([]domain.Customer{{Name: "Ana"}}, 11, nil)

	page, err := svc.ListCustomers(context.Background(), companyID, " ana ", 2)

	require.NoError(t, err)
	assert.Equal(t, 11, page.TotalCount)
	assert.Equal(t, domain.PageSize, page.PageSize)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 10, expectedFilter.Offset())
}

func TestListCustomers_PageDefaultsToOne(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))

	repo.On("List", mock.Anything, domain.ListFilter{CompanyID: companyID, Page: 1}).Return([]domain.Customer{}, 0, nil)

	page, err := svc.ListCustomers(context.Background(), companyID, "", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	repo.AssertExpectations(t)
}

func TestUpdateCustomer(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))
	id := uuid.NewString()

	repo.On("FindByID", mock.Anything, companyID, id).Return(domain.Customer{ID: id, CompanyID: companyID, Name: "Ana"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.ID == id && c.Name == "Ana Souza" && c.Document == "12345678900"
	})).Return(domain.Customer{ID: id, Name: "Ana Souza"}, nil)

	updated, err := svc.UpdateCustomer(context.Background(), companyID, id, domain.CustomerInput{Name: "Ana Souza", Document: "12345678900"})

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)
	repo.AssertExpectations(t)
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))
	id := uuid.NewString()

	repo.On("FindByID", mock.Anything, companyID, id).Return(domain.Customer{}, apperror.NewNotFoundError("não encontrado"))

	_, err := svc.UpdateCustomer(context.Background(), companyID, id, domain.CustomerInput{Name: "Ana"})

	assert.IsType(t, &apperror.NotFoundError{}, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteCustomer(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := customerservice.NewService(repo, logger.NewLogger("debug"))
	id := uuid.NewString()

	repo.On("SoftDelete", mock.Anything, companyID, id).Return(nil)

	require.NoError(t, svc.DeleteCustomer(context.Background(), companyID, id))
	repo.AssertExpectations(t)
}
