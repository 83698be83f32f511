package customerservice

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
)

// Service contém as regras de cadastro de clientes de uma oficina.
type Service struct {
	Repo   domain.CustomerRepository
	logger logger.Logger
}

// NewService cria uma nova instância do Service.
func NewService(repo domain.CustomerRepository, logger logger.Logger) *Service {
	return &Service{Repo: repo, logger: logger}
}

func normalizeInput(input domain.CustomerInput) (domain.CustomerInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Document = strings.TrimSpace(input.Document)
	input.Notes = strings.TrimSpace(input.Notes)

	if input.Name == "" {
		return input, apperror.NewValidationError("O nome do cliente é obrigatório.")
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			return input, apperror.NewValidationError("Email do cliente inválido.")
		}
	}
	return input, nil
}

func validateID(id, label string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError(fmt.Sprintf("ID de %s inválido. Deve ser um UUID.", label))
	}
	return nil
}

// CreateCustomer cadastra um cliente na empresa.
func (s *Service) CreateCustomer(ctx context.Context, companyID string, input domain.CustomerInput) (domain.Customer, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.Repo.Create(ctx, domain.Customer{
		CompanyID: companyID,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Document:  input.Document,
		Notes:     input.Notes,
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente cadastrado.", map[string]interface{}{"customer_id": customer.ID, "company_id": companyID})
	return customer, nil
}

// GetCustomer busca um cliente ativo da empresa.
func (s *Service) GetCustomer(ctx context.Context, companyID, id string) (domain.Customer, error) {
	if err := validateID(id, "cliente"); err != nil {
		return domain.Customer{}, err
	}
	return s.Repo.FindByID(ctx, companyID, id)
}

// ListCustomers devolve uma página de clientes, com busca opcional.
func (s *Service) ListCustomers(ctx context.Context, companyID, search string, page int) (domain.Page[domain.Customer], error) {
	if page < 1 {
		page = 1
	}
	filter := domain.ListFilter{CompanyID: companyID, Search: strings.TrimSpace(search), Page: page}

	customers, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Customer]{}, err
	}
	return domain.Page[domain.Customer]{Items: customers, Page: page, PageSize: domain.PageSize, TotalCount: total}, nil
}

// UpdateCustomer substitui os dados editáveis do cliente.
func (s *Service) UpdateCustomer(ctx context.Context, companyID, id string, input domain.CustomerInput) (domain.Customer, error) {
	if err := validateID(id, "cliente"); err != nil {
		return domain.Customer{}, err
	}
	input, err := normalizeInput(input)
	if err != nil {
		return domain.Customer{}, err
	}

	current, err := s.Repo.FindByID(ctx, companyID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	current.Name = input.Name
	current.Phone = input.Phone
	current.Email = input.Email
	current.Document = input.Document
	current.Notes = input.Notes

	return s.Repo.Update(ctx, current)
}

// DeleteCustomer faz a exclusão lógica do cliente.
func (s *Service) DeleteCustomer(ctx context.Context, companyID, id string) error {
	if err := validateID(id, "cliente"); err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, companyID, id); err != nil {
		return err
	}
	s.logger.Info("Cliente excluído.", map[string]interface{}{"customer_id": id, "company_id": companyID})
	return nil
}
