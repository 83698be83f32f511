package catalog

import (
	"net/http"

	"gooficina/internal/api/response"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/middleware"
)

// CatalogService define o contrato que o Handler espera do catálogo.
type CatalogService interface {
	AddProduct(input domain.ProductInput) (domain.Product, error)
	GetProduct(id string) (domain.Product, error)
	ListProducts() []domain.Product
	UpdateProduct(id string, patch domain.ProductPatch) (domain.Product, error)
	RemoveProduct(id string) error
	AdjustStock(id string, delta int) (domain.Product, error)
	ListLowStock() []domain.Product
	ServiceTypes() []domain.ServiceType
	Lookup(code string) (domain.ProductQuote, error)
}

// Handler agrupa os handlers de produtos e serviços do catálogo.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListProductsHandler lida com GET /v1/products.
// @Summary Lista os produtos do catálogo
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Service.ListProducts(), nil, http.StatusOK)
}

// CreateProductHandler lida com POST /v1/products.
// @Summary Cadastra um produto
// @Tags catalog
// @Accept json
// @Produce json
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Nome/categoria ausentes, preço não positivo ou estoque negativo"
// @Failure 403 {object} domain.ErrorResponse "Apenas admin"
// @Security BearerAuth
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Cadastro de produto solicitado.", map[string]interface{}{"user_id": claims.UserID})
	}

	var input domain.ProductInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	product, err := h.Service.AddProduct(input)
	response.Write(w, r, h.Logger, product, err, http.StatusCreated)
}

// GetProductHandler lida com GET /v1/products/{id}.
// @Summary Busca um produto pelo ID
// @Tags catalog
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProduct(r.PathValue("id"))
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}

// UpdateProductHandler lida com PATCH /v1/products/{id}.
// @Summary Atualiza parcialmente um produto
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param patch body domain.ProductPatch true "Campos a alterar"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [patch]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := response.DecodeJSON(r, &patch); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	product, err := h.Service.UpdateProduct(r.PathValue("id"), patch)
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}

// DeleteProductHandler lida com DELETE /v1/products/{id}.
// @Summary Remove um produto do catálogo
// @Tags catalog
// @Param id path string true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoveProduct(r.PathValue("id"))
	response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// AdjustStockHandler lida com POST /v1/products/{id}/stock.
// @Summary Entrada ou saída manual de estoque
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param adjustment body domain.StockAdjustmentRequest true "Delta de estoque"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Delta zero ou estoque resultante negativo"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/stock [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.StockAdjustmentRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	product, err := h.Service.AdjustStock(r.PathValue("id"), req.Delta)
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}

// LowStockHandler lida com GET /v1/products/low-stock.
// @Summary Produtos com estoque no mínimo ou abaixo
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /products/low-stock [get]
func (h *Handler) LowStockHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Service.ListLowStock(), nil, http.StatusOK)
}

// ServiceTypesHandler lida com GET /v1/services.
// @Summary Tabela de serviços com preço padrão
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.ServiceType
// @Security BearerAuth
// @Router /services [get]
func (h *Handler) ServiceTypesHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Service.ServiceTypes(), nil, http.StatusOK)
}

// LookupHandler lida com GET /v1/products/lookup/{code}.
// @Summary Resolve um código de barras
// @Description Códigos desconhecidos viram um item avulso sem product_id.
// @Tags catalog
// @Produce json
// @Param code path string true "Código lido"
// @Success 200 {object} domain.ProductQuote
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/lookup/{code} [get]
func (h *Handler) LookupHandler(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Service.Lookup(r.PathValue("code"))
	response.Write(w, r, h.Logger, quote, err, http.StatusOK)
}
