package vehicle

import (
	"context"
	"net/http"

	"gooficina/internal/api/response"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
)

// VehicleService define o contrato que o Handler espera da camada de serviço.
type VehicleService interface {
	CreateVehicle(ctx context.Context, companyID string, input domain.VehicleInput) (domain.Vehicle, error)
	GetVehicle(ctx context.Context, companyID, id string) (domain.Vehicle, error)
	ListVehicles(ctx context.Context, companyID, customerID, search string, page int) (domain.Page[domain.Vehicle], error)
	UpdateVehicle(ctx context.Context, companyID, id string, input domain.VehicleInput) (domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, companyID, id string) error
}

// Handler agrupa os handlers de veículos.
type Handler struct {
	Service VehicleService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc VehicleService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListVehiclesHandler lida com GET /v1/vehicles.
// @Summary Lista veículos da oficina
// @Tags vehicles
// @Produce json
// @Param customer_id query string false "Somente veículos deste cliente"
// @Param search query string false "Busca por placa, marca ou modelo"
// @Param page query int false "Página (10 itens por página)"
// @Success 200 {object} domain.Page[domain.Vehicle]
// @Security BearerAuth
// @Router /vehicles [get]
func (h *Handler) ListVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	q := r.URL.Query()
	page, err := h.Service.ListVehicles(r.Context(), companyID, q.Get("customer_id"), q.Get("search"), response.PageParam(r))
	response.Write(w, r, h.Logger, page, err, http.StatusOK)
}

// CreateVehicleHandler lida com POST /v1/vehicles.
// @Summary Cadastra um veículo
// @Tags vehicles
// @Accept json
// @Produce json
// @Param vehicle body domain.VehicleInput true "Dados do veículo"
// @Success 201 {object} domain.Vehicle
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Já existe um veículo com esta placa"
// @Security BearerAuth
// @Router /vehicles [post]
func (h *Handler) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	var input domain.VehicleInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	vehicle, err := h.Service.CreateVehicle(r.Context(), companyID, input)
	response.Write(w, r, h.Logger, vehicle, err, http.StatusCreated)
}

// GetVehicleHandler lida com GET /v1/vehicles/{id}.
// @Summary Busca um veículo
// @Tags vehicles
// @Produce json
// @Param id path string true "ID do veículo"
// @Success 200 {object} domain.Vehicle
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *Handler) GetVehicleHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	vehicle, err := h.Service.GetVehicle(r.Context(), companyID, r.PathValue("id"))
	response.Write(w, r, h.Logger, vehicle, err, http.StatusOK)
}

// UpdateVehicleHandler lida com PUT /v1/vehicles/{id}.
// @Summary Atualiza um veículo
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "ID do veículo"
// @Param vehicle body domain.VehicleInput true "Dados do veículo"
// @Success 200 {object} domain.Vehicle
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Já existe um veículo com esta placa"
// @Security BearerAuth
// @Router /vehicles/{id} [put]
func (h *Handler) UpdateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var input domain.VehicleInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	vehicle, err := h.Service.UpdateVehicle(r.Context(), companyID, r.PathValue("id"), input)
	response.Write(w, r, h.Logger, vehicle, err, http.StatusOK)
}

// DeleteVehicleHandler lida com DELETE /v1/vehicles/{id}.
// @Summary Exclui (logicamente) um veículo
// @Tags vehicles
// @Param id path string true "ID do veículo"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{id} [delete]
func (h *Handler) DeleteVehicleHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := response.CompanyID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeleteVehicle(r.Context(), companyID, r.PathValue("id"))
	response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
}
