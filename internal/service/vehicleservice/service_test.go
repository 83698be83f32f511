package vehicleservice_test

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
	"gooficina/internal/service/vehicleservice"
)

// MockVehicleRepository é uma implementação mock da interface domain.VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, companyID, id string) (domain.Vehicle, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Vehicle), args.Int(1), args.Error(2)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

// MockCustomerFinder é uma implementação mock da interface CustomerFinder
type MockCustomerFinder struct {
	mock.Mock
}

func (m *MockCustomerFinder) FindByID(ctx context.Context, companyID, id string) (domain.Customer, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

const companyID = "9b2f6a3e-3c55-4d6c-9a51-2a1f0e7f1c11"

func newService() (*vehicleservice.Service, *MockVehicleRepository, *MockCustomerFinder) {
	repo := new(MockVehicleRepository)
	customers := new(MockCustomerFinder)
	return vehicleservice.NewService(repo, customers, logger.NewLogger("debug")), repo, customers
}

func TestCreateVehicle_Success(t *testing.T) {
	svc, repo, customers := newService()
	customerID := uuid.NewString()
	year := 2021

	customers.On("FindByID", mock.Anything, companyID, customerID).Return(domain.Customer{ID: customerID, Name: "Ana"}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(v domain.Vehicle) bool {
		return v.Plate == "ABC1D23" && v.Type == domain.VehicleMoto && v.CompanyID == companyID && *v.Year == 2021
	})).Return(domain.Vehicle{ID: uuid.NewString(), Plate: "ABC1D23", CustomerID: customerID}, nil)

	vehicle, err := svc.CreateVehicle(context.Background(), companyID, domain.VehicleInput{
		CustomerID: customerID,
		Plate:      " abc1d23 ",
		Brand:      "Honda",
		Model:      "CG 160",
		Year:       &year,
	})

	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", vehicle.Plate)
	assert.Equal(t, "Ana", vehicle.CustomerName)
	repo.AssertExpectations(t)
}

func TestCreateVehicle_Validation(t *testing.T) {
	svc, repo, _ := newService()
	customerID := uuid.NewString()
	oldYear, negativeKm := 1850, -5

	cases := map[string]domain.VehicleInput{
		"sem placa":        {CustomerID: customerID, Brand: "Honda", Model: "CG"},
		"sem marca":        {CustomerID: customerID, Plate: "ABC1234", Model: "CG"},
		"sem cliente":      {Plate: "ABC1234", Brand: "Honda", Model: "CG"},
		"cliente inválido": {CustomerID: "x", Plate: "ABC1234", Brand: "Honda", Model: "CG"},
		"tipo inválido":    {CustomerID: customerID, Plate: "ABC1234", Brand: "Honda", Model: "CG", Type: "barco"},
		"ano antigo":       {CustomerID: customerID, Plate: "ABC1234", Brand: "Honda", Model: "CG", Year: &oldYear},
		"km negativo":      {CustomerID: customerID, Plate: "ABC1234", Brand: "Honda", Model: "CG", OdometerKm: &negativeKm},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateVehicle(context.Background(), companyID, input)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateVehicle_UnknownCustomer(t *testing.T) {
	svc, repo, customers := newService()
	customerID := uuid.NewString()

	customers.On("FindByID", mock.Anything, companyID, customerID).Return(domain.Customer{}, apperror.NewNotFoundError("não encontrado"))

	_, err := svc.CreateVehicle(context.Background(), companyID, domain.VehicleInput{CustomerID: customerID, Plate: "ABC1234", Brand: "Honda", Model: "CG"})

	assert.IsType(t, &apperror.NotFoundError{}, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateVehicle_DuplicatePlate(t *testing.T) {
	svc, repo, customers := newService()
	customerID := uuid.NewString()

	customers.On("FindByID", mock.Anything, companyID, customerID).Return(domain.Customer{ID: customerID}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.Vehicle")).
		Return(domain.Vehicle{}, apperror.NewConflictError("Já existe um veículo com esta placa"))

	_, err := svc.CreateVehicle(context.Background(), companyID, domain.VehicleInput{CustomerID: customerID, Plate: "ABC1234", Brand: "Honda", Model: "CG"})

	require.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "Já existe um veículo com esta placa")
}

func TestListVehicles_ByCustomer(t *testing.T) {
	svc, repo, _ := newService()
	customerID := uuid.NewString()

	repo.On("List", mock.Anything, domain.ListFilter{CompanyID: companyID, CustomerID: customerID, Search: "cg", Page: 1}).
		Return([]domain.Vehicle{{Plate: "ABC1234"}}, 1, nil)

	page, err := svc.ListVehicles(context.Background(), companyID, customerID, "cg", 1)

	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	_, err = svc.ListVehicles(context.Background(), companyID, "nao-uuid", "", 1)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestUpdateVehicle_ChangesOwner(t *testing.T) {
	svc, repo, customers := newService()
	id, oldOwner, newOwner := uuid.NewString(), uuid.NewString(), uuid.NewString()

	repo.On("FindByID", mock.Anything, companyID, id).
		Return(domain.Vehicle{ID: id, CompanyID: companyID, CustomerID: oldOwner, Plate: "ABC1234", Type: domain.VehicleMoto}, nil)
	customers.On("FindByID", mock.Anything, companyID, newOwner).Return(domain.Customer{ID: newOwner, Name: "Bruno"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(v domain.Vehicle) bool {
		return v.CustomerID == newOwner && v.CustomerName == "Bruno" && v.Model == "Fan 160"
	})).Return(domain.Vehicle{ID: id, CustomerID: newOwner, CustomerName: "Bruno"}, nil)

	updated, err := svc.UpdateVehicle(context.Background(), companyID, id, domain.VehicleInput{
		CustomerID: newOwner, Plate: "ABC1234", Brand: "Honda", Model: "Fan 160", Type: domain.VehicleMoto,
	})

	require.NoError(t, err)
	assert.Equal(t, "Bruno", updated.CustomerName)
	repo.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestDeleteVehicle(t *testing.T) {
	svc, repo, _ := newService()
	id := uuid.NewString()
	repo.On("SoftDelete", mock.Anything, companyID, id).Return(apperror.NewNotFoundError("não encontrado"))

	err := svc.DeleteVehicle(context.Background(), companyID, id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.IsType(t, &apperror.ValidationError{}, svc.DeleteVehicle(context.Background(), companyID, "abc"))
}
