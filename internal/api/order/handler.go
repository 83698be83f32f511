package order

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"gooficina/internal/api/response"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
)

// OrderLedger define o contrato que o Handler espera do ledger de OS.
type OrderLedger interface {
	CreateOrder(plate, customerName, phone string) (domain.Order, error)
	UpdateOrder(id string, update domain.OrderUpdate) (domain.Order, error)
	ToggleService(orderID, lineID string) (domain.Order, error)
	SetServicePrice(orderID, lineID string, price decimal.Decimal) (domain.Order, error)
	AddProduct(orderID, productID string, quantity int) (domain.Order, error)
	AddProductByCode(orderID, code string, quantity int) (domain.Order, error)
	RemoveProduct(orderID, productID string) (domain.Order, error)
	StartOrder(id string) (domain.Order, error)
	FinalizeOrder(ctx context.Context, id string) (domain.Order, error)
	FindByPlate(query string) []domain.Order
	FindByID(id string) (domain.Order, error)
}

// CreateOrderRequest é o payload de abertura de OS.
type CreateOrderRequest struct {
	Plate        string `json:"plate" example:"ABC1D23"`
	CustomerName string `json:"customer_name" example:"Ana Souza"`
	Phone        string `json:"phone" example:"11999999999"`
}

// ServicePriceRequest é o payload de alteração do preço de um serviço na OS.
type ServicePriceRequest struct {
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"70.00"`
}

// AddProductRequest lança uma peça do catálogo pelo ID.
type AddProductRequest struct {
	ProductID string `json:"product_id" example:"7"`
	Quantity  int    `json:"quantity" example:"2"`
}

// ScanProductRequest lança uma peça pelo código de barras.
type ScanProductRequest struct {
	Code     string `json:"code" example:"7891234567896"`
	Quantity int    `json:"quantity" example:"1"`
}

// Handler agrupa os handlers de ordens de serviço.
type Handler struct {
	Ledger OrderLedger
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(ledger OrderLedger, log logger.Logger) *Handler {
	return &Handler{Ledger: ledger, Logger: log}
}

// ListOrdersHandler lida com GET /v1/orders.
// @Summary Lista ou busca OS por placa
// @Tags orders
// @Produce json
// @Param plate query string false "Trecho da placa (sem diferenciar maiúsculas)"
// @Success 200 {array} domain.Order
// @Security BearerAuth
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders := h.Ledger.FindByPlate(r.URL.Query().Get("plate"))
	response.Write(w, r, h.Logger, orders, nil, http.StatusOK)
}

// CreateOrderHandler lida com POST /v1/orders.
// @Summary Abre uma nova OS
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Placa, cliente e telefone"
// @Success 201 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Placa ou cliente ausentes"
// @Security BearerAuth
// @Router /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	order, err := h.Ledger.CreateOrder(req.Plate, req.CustomerName, req.Phone)
	response.Write(w, r, h.Logger, order, err, http.StatusCreated)
}

// GetOrderHandler lida com GET /v1/orders/{id}.
// @Summary Busca uma OS pelo ID
// @Tags orders
// @Produce json
// @Param id path string true "ID da OS"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Ledger.FindByID(r.PathValue("id"))
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// UpdateOrderHandler lida com PATCH /v1/orders/{id}.
// @Summary Edita uma OS em lote
// @Description Campos ausentes não mudam. OS finalizada não aceita edição (409).
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID da OS"
// @Param update body domain.OrderUpdate true "Campos a alterar"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id} [patch]
func (h *Handler) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var update domain.OrderUpdate
	if err := response.DecodeJSON(r, &update); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Ledger.UpdateOrder(r.PathValue("id"), update)
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// ToggleServiceHandler lida com POST /v1/orders/{id}/services/{lineId}/toggle.
// @Summary Marca ou desmarca um serviço da OS
// @Tags orders
// @Produce json
// @Param id path string true "ID da OS"
// @Param lineId path string true "ID da linha de serviço (servico-N)"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id}/services/{lineId}/toggle [post]
func (h *Handler) ToggleServiceHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Ledger.ToggleService(r.PathValue("id"), r.PathValue("lineId"))
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// SetServicePriceHandler lida com PUT /v1/orders/{id}/services/{lineId}/price.
// @Summary Altera o preço de um serviço só nesta OS
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID da OS"
// @Param lineId path string true "ID da linha de serviço"
// @Param price body ServicePriceRequest true "Novo preço"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Preço negativo"
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id}/services/{lineId}/price [put]
func (h *Handler) SetServicePriceHandler(w http.ResponseWriter, r *http.Request) {
	var req ServicePriceRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Ledger.SetServicePrice(r.PathValue("id"), r.PathValue("lineId"), req.Price)
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// AddProductHandler lida com POST /v1/orders/{id}/products.
// @Summary Lança uma peça do catálogo na OS
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID da OS"
// @Param product body AddProductRequest true "Produto e quantidade"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Quantidade inválida ou estoque insuficiente"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id}/products [post]
func (h *Handler) AddProductHandler(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Ledger.AddProduct(r.PathValue("id"), req.ProductID, req.Quantity)
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// ScanProductHandler lida com POST /v1/orders/{id}/products/scan.
// @Summary Lança uma peça pelo código de barras
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID da OS"
// @Param scan body ScanProductRequest true "Código e quantidade"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id}/products/scan [post]
func (h *Handler) ScanProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ScanProductRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	order, err := h.Ledger.AddProductByCode(r.PathValue("id"), req.Code, req.Quantity)
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// RemoveProductHandler lida com DELETE /v1/orders/{id}/products/{productId}.
// @Summary Remove uma peça da OS
// @Tags orders
// @Produce json
// @Param id path string true "ID da OS"
// @Param productId path string true "ID do produto"
// @Success 200 {object} domain.Order
// @Failure 409 {object} domain.ErrorResponse "OS finalizada"
// @Security BearerAuth
// @Router /orders/{id}/products/{productId} [delete]
func (h *Handler) RemoveProductHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Ledger.RemoveProduct(r.PathValue("id"), r.PathValue("productId"))
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// StartOrderHandler lida com POST /v1/orders/{id}/start.
// @Summary Inicia o atendimento (open -> in-progress)
// @Tags orders
// @Produce json
// @Param id path string true "ID da OS"
// @Success 200 {object} domain.Order
// @Failure 409 {object} domain.ErrorResponse "Transição não permitida"
// @Security BearerAuth
// @Router /orders/{id}/start [post]
func (h *Handler) StartOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Ledger.StartOrder(r.PathValue("id"))
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// FinalizeOrderHandler lida com POST /v1/orders/{id}/finalize.
// @Summary Finaliza a OS
// @Description Dá baixa no estoque, acumula as vendas e congela a OS.
// @Tags orders
// @Produce json
// @Param id path string true "ID da OS"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Transição não permitida ou OS já finalizada"
// @Security BearerAuth
// @Router /orders/{id}/finalize [post]
func (h *Handler) FinalizeOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Ledger.FinalizeOrder(r.Context(), r.PathValue("id"))
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}
