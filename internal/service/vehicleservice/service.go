package vehicleservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
)

// firstModelYear é o ano mais antigo aceito no cadastro.
const firstModelYear = 1900

// CustomerFinder confirma que o dono do veículo existe na mesma empresa.
type CustomerFinder interface {
	FindByID(ctx context.Context, companyID, id string) (domain.Customer, error)
}

// Service contém as regras de cadastro de veículos.
type Service struct {
	Repo      domain.VehicleRepository
	Customers CustomerFinder
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria uma nova instância do Service.
func NewService(repo domain.VehicleRepository, customers CustomerFinder, logger logger.Logger) *Service {
	return &Service{Repo: repo, Customers: customers, logger: logger, now: time.Now}
}

func (s *Service) normalizeInput(input domain.VehicleInput) (domain.VehicleInput, error) {
	input.Plate = domain.NormalizePlate(input.Plate)
	input.Brand = strings.TrimSpace(input.Brand)
	input.Model = strings.TrimSpace(input.Model)
	input.Color = strings.TrimSpace(input.Color)
	input.Notes = strings.TrimSpace(input.Notes)
	input.CustomerID = strings.TrimSpace(input.CustomerID)
	if input.Type == "" {
		input.Type = domain.VehicleMoto
	}

	if input.Plate == "" || input.Brand == "" || input.Model == "" {
		return input, apperror.NewValidationError("Placa, marca e modelo são obrigatórios.")
	}
	if input.CustomerID == "" {
		return input, apperror.NewValidationError("Selecione um cliente.")
	}
	if _, err := uuid.Parse(input.CustomerID); err != nil {
		return input, apperror.NewValidationError("ID de cliente inválido. Deve ser um UUID.")
	}
	if !input.Type.IsValid() {
		return input, apperror.NewValidationError(fmt.Sprintf("Tipo de veículo inválido: %q.", input.Type))
	}
	if input.Year != nil && (*input.Year < firstModelYear || *input.Year > s.now().Year()+1) {
		return input, apperror.NewValidationError("Ano do veículo fora do intervalo aceito.")
	}
	if input.OdometerKm != nil && *input.OdometerKm < 0 {
		return input, apperror.NewValidationError("A quilometragem não pode ser negativa.")
	}
	return input, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("ID de veículo inválido. Deve ser um UUID.")
	}
	return nil
}

func apply(v domain.Vehicle, input domain.VehicleInput) domain.Vehicle {
	v.CustomerID = input.CustomerID
	v.Plate = input.Plate
	v.Brand = input.Brand
	v.Model = input.Model
	v.Year = input.Year
	v.Color = input.Color
	v.Type = input.Type
	v.OdometerKm = input.OdometerKm
	v.Notes = input.Notes
	return v
}

// CreateVehicle cadastra um veículo para um cliente da empresa.
func (s *Service) CreateVehicle(ctx context.Context, companyID string, input domain.VehicleInput) (domain.Vehicle, error) {
	input, err := s.normalizeInput(input)
	if err != nil {
		return domain.Vehicle{}, err
	}
	owner, err := s.Customers.FindByID(ctx, companyID, input.CustomerID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	vehicle, err := s.Repo.Create(ctx, apply(domain.Vehicle{CompanyID: companyID}, input))
	if err != nil {
		return domain.Vehicle{}, err
	}
	vehicle.CustomerName = owner.Name

	s.logger.Info("Veículo cadastrado.", map[string]interface{}{"vehicle_id": vehicle.ID, "plate": vehicle.Plate})
	return vehicle, nil
}

// GetVehicle busca um veículo ativo da empresa.
func (s *Service) GetVehicle(ctx context.Context, companyID, id string) (domain.Vehicle, error) {
	if err := validateID(id); err != nil {
		return domain.Vehicle{}, err
	}
	return s.Repo.FindByID(ctx, companyID, id)
}

// ListVehicles devolve uma página de veículos, com busca e filtro por cliente opcionais.
func (s *Service) ListVehicles(ctx context.Context, companyID, customerID, search string, page int) (domain.Page[domain.Vehicle], error) {
	if page < 1 {
		page = 1
	}
	customerID = strings.TrimSpace(customerID)
	if customerID != "" {
		if _, err := uuid.Parse(customerID); err != nil {
			return domain.Page[domain.Vehicle]{}, apperror.NewValidationError("ID de cliente inválido. Deve ser um UUID.")
		}
	}
	filter := domain.ListFilter{CompanyID: companyID, CustomerID: customerID, Search: strings.TrimSpace(search), Page: page}

	vehicles, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Vehicle]{}, err
	}
	return domain.Page[domain.Vehicle]{Items: vehicles, Page: page, PageSize: domain.PageSize, TotalCount: total}, nil
}

// UpdateVehicle substitui os dados editáveis do veículo.
func (s *Service) UpdateVehicle(ctx context.Context, companyID, id string, input domain.VehicleInput) (domain.Vehicle, error) {
	if err := validateID(id); err != nil {
		return domain.Vehicle{}, err
	}
	input, err := s.normalizeInput(input)
	if err != nil {
		return domain.Vehicle{}, err
	}

	current, err := s.Repo.FindByID(ctx, companyID, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if input.CustomerID != current.CustomerID {
		owner, err := s.Customers.FindByID(ctx, companyID, input.CustomerID)
		if err != nil {
			return domain.Vehicle{}, err
		}
		current.CustomerName = owner.Name
	}

	return s.Repo.Update(ctx, apply(current, input))
}

// DeleteVehicle faz a exclusão lógica do veículo.
func (s *Service) DeleteVehicle(ctx context.Context, companyID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, companyID, id); err != nil {
		return err
	}
	s.logger.Info("Veículo excluído.", map[string]interface{}{"vehicle_id": id, "company_id": companyID})
	return nil
}
