package customer

import (
	"context"
	"net/http"

	"gooficina/internal/api/response"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
)

// CustomerService define o contrato que o Handler espera da camada de serviço.
type CustomerService interface {
	CreateCustomer(ctx context.Context, companyID string, input domain.CustomerInput) (domain.Customer, error)
	GetCustomer(ctx context.Context, companyID, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, companyID, search string, page int) (domain.Page[domain.Customer], error)
	UpdateCustomer(ctx context.Context, companyID, id string, input domain.CustomerInput) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, companyID, id string) error
}

// Handler agrupa os handlers de clientes.
type Handler struct {
	Service CustomerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListCustomersHandler lida com GET /v1/customers.
// @Summary Lista clientes da oficina
// @Tags customers
// @Produce json
// @Param search query string false "Busca por nome, telefone ou documento"
// @Param page query int false "Página (10 itens por página)"
// @Success 200 {object} domain.Page[domain.Customer]
// @Security BearerAuth
// @Router /customers [get]
func (h *Handler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	page, err := h.Service.ListCustomers(r.Context(), companyID, r.URL.Query().Get("search"), response.PageParam(r))
	response.Write(w, r, h.Logger, page, err, http.StatusOK)
}

// CreateCustomerHandler lida com POST /v1/customers.
// @Summary Cadastra um cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /customers [post]
func (h *Handler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	var input domain.CustomerInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	customer, err := h.Service.CreateCustomer(r.Context(), companyID, input)
	response.Write(w, r, h.Logger, customer, err, http.StatusCreated)
}

// GetCustomerHandler lida com GET /v1/customers/{id}.
// @Summary Busca um cliente
// @Tags customers
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *Handler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	customer, err := h.Service.GetCustomer(r.Context(), companyID, r.PathValue("id"))
	response.Write(w, r, h.Logger, customer, err, http.StatusOK)
}

// UpdateCustomerHandler lida com PUT /v1/customers/{id}.
// @Summary Atualiza um cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "ID do cliente"
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *Handler) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var input domain.CustomerInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	customer, err := h.Service.UpdateCustomer(r.Context(), companyID, r.PathValue("id"), input)
	response.Write(w, r, h.Logger, customer, err, http.StatusOK)
}

// DeleteCustomerHandler lida com DELETE /v1/customers/{id}.
// @Summary Exclui (logicamente) um cliente
// @Tags customers
// @Param id path string true "ID do cliente"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /customers/{id} [delete]
func (h *Handler) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeleteCustomer(r.Context(), companyID, r.PathValue("id"))
	response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
}
